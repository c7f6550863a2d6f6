package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/cafe-order-app/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrTableNotFound = errors.New("table not found")
	ErrTableInactive = errors.New("table is not active")
	// Membatalkan order yang sudah divalidasi berarti mengembalikan stok,
	// jadi butuh hak akses admin.
	ErrCancelNeedsAdmin = errors.New("cancelling a validated order requires admin access")
)

// InvalidStateError -> transisi dicoba dari status yang tidak mengizinkannya
type InvalidStateError struct {
	Action string
	Status models.OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s order with status %s", e.Action, e.Status)
}

// MenuItemNotFoundError -> menu yang direferensikan tidak ada
type MenuItemNotFoundError struct {
	MenuID uint
}

func (e *MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item not found: %d", e.MenuID)
}

// ItemUnavailableError -> item diarsip atau tidak tersedia saat permintaan bertambah
type ItemUnavailableError struct {
	MenuID uint
	Name   string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("menu item not available: %s", e.Name)
}

// InsufficientStockError -> kuantitas yang diminta melebihi stok, per item
type InsufficientStockError struct {
	MenuID    uint
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for: %s (available: %d)", e.Name, e.Available)
}
