package models

import "time"

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	// MenuID adalah weak reference: menu bisa diarsip setelah order dibuat,
	// maka nama dan harga disimpan sebagai snapshot di baris ini.
	MenuID   uint   `gorm:"not null;index" json:"menu_id"`
	Menu     *Menu  `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	MenuName string `gorm:"type:varchar(150);not null" json:"menu_name"`
	Quantity int    `gorm:"not null" json:"quantity"`
	// Price adalah snapshot harga satuan saat order dibuat/diedit
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Subtotal dihitung dari snapshot, bukan harga katalog sekarang
func (oi *OrderItem) Subtotal() int64 {
	return oi.Price * int64(oi.Quantity)
}
