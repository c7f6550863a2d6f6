package models

import "time"

type Menu struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	CategoryID  *uint         `gorm:"index" json:"category_id,omitempty"`
	Category    *MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Name        string        `gorm:"type:varchar(150);not null" json:"name"`
	// Harga dalam rupiah (tanpa desimal)
	Price       int64     `gorm:"not null" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	IsArchived  bool      `gorm:"not null;default:false" json:"is_archived"`
	Description string    `gorm:"type:text" json:"description"`
	ImageUrl    *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// CanBeOrdered -> item boleh menambah permintaan baru
func (m *Menu) CanBeOrdered() bool {
	return !m.IsArchived && m.IsAvailable
}
