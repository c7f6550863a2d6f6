package utils

import "fmt"

// FormatCurrencyIDR memformat harga (rupiah, tanpa desimal) dengan pemisah ribuan.
// Contoh: 15000 -> "Rp 15.000"
func FormatCurrencyIDR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	formatted := ""
	for amount >= 1000 {
		formatted = fmt.Sprintf(".%03d%s", amount%1000, formatted)
		amount /= 1000
	}
	formatted = fmt.Sprintf("%d%s", amount, formatted)

	if negative {
		return "Rp -" + formatted
	}
	return "Rp " + formatted
}
