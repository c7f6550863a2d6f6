package models

import "time"

type Table struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	TableNumber int  `gorm:"unique;not null" json:"table_number"`
	IsActive    bool `gorm:"not null;default:true" json:"is_active"`
	// QR code berupa PNG data URL, digenerate saat meja dibuat
	QRCode    string    `gorm:"type:text" json:"qr_code"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
