package models

import "time"

// OrderStatus adalah enum tertutup untuk lifecycle order.
// pending -> validated -> paid -> served, cancelled dari pending/validated.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusValidated OrderStatus = "validated"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Payment methods
const (
	PaymentMethodCash = "cash"
	PaymentMethodQRIS = "qris"
)

type Order struct {
	ID      uint        `gorm:"primaryKey" json:"id"`
	TableID uint        `gorm:"not null;index" json:"table_id"`
	Table   Table       `gorm:"foreignKey:TableID" json:"table"`
	Status  OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// TotalPrice diturunkan dari snapshot harga item, dihitung ulang setiap kali items berubah
	TotalPrice    int64       `gorm:"not null;default:0" json:"total_price"`
	PaymentMethod *string     `gorm:"type:varchar(10)" json:"payment_method,omitempty"`
	ValidatedAt   *time.Time  `json:"validated_at,omitempty"`
	ServedAt      *time.Time  `json:"served_at,omitempty"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems    []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	Payments      []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// CanEditItems -> items hanya boleh diubah sebelum dibayar/disajikan
func (o *Order) CanEditItems() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusValidated
}
