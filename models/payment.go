package models

import "time"

// Payment dibuat tepat satu kali saat transisi pay berhasil; immutable setelahnya.
type Payment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;index" json:"order_id"`
	Order       Order      `gorm:"foreignKey:OrderID" json:"-"`
	Method      string     `gorm:"type:varchar(10);not null" json:"method"`
	Status      string     `gorm:"type:varchar(20);not null;default:'success'" json:"status"`
	Amount      int64      `gorm:"not null" json:"amount"`
	ReferenceID string     `gorm:"type:varchar(64)" json:"reference_id"`
	PaidAt      *time.Time `json:"paid_at"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

const PaymentStatusSuccess = "success"
