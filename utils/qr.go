package utils

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// buildTablePayload -> payload default nomor meja; kalau CUSTOMER_QR_URL
// di-set, payload jadi URL + query ?table=<number>.
func buildTablePayload(tableNumber int) string {
	base := os.Getenv("CUSTOMER_QR_URL")
	if base == "" {
		return fmt.Sprintf("%d", tableNumber)
	}

	u, err := url.Parse(base)
	if err != nil {
		// Fallback ke payload angka jika URL tidak valid
		return fmt.Sprintf("%d", tableNumber)
	}
	q := u.Query()
	q.Set("table", fmt.Sprintf("%d", tableNumber))
	u.RawQuery = q.Encode()
	return u.String()
}

// GenerateTableQR membuat QR code PNG (data URL) untuk satu nomor meja.
func GenerateTableQR(tableNumber int) (string, error) {
	payload := buildTablePayload(tableNumber)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
