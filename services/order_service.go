package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
)

// OrderService memegang seluruh lifecycle order dan reservasi stok.
// Semua mutasi status + stok berjalan dalam satu transaksi database;
// tidak ada lock in-memory, guard dicek ulang di dalam transaksi.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// ItemRequest adalah satu baris permintaan item dari customer/admin
type ItemRequest struct {
	MenuID   uint `json:"menu_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

// aggregateQuantities menjumlahkan request dengan menu_id duplikat.
// Urutan kemunculan pertama dipertahankan supaya urutan item stabil.
func aggregateQuantities(items []ItemRequest) (map[uint]int, []uint) {
	qty := make(map[uint]int, len(items))
	var order []uint
	for _, it := range items {
		if _, seen := qty[it.MenuID]; !seen {
			order = append(order, it.MenuID)
		}
		qty[it.MenuID] += it.Quantity
	}
	return qty, order
}

/*
========================================
 STOCK LEDGER
========================================
*/

// decrementStock mengurangi stok dengan guard di level SQL:
// UPDATE ... SET stock = stock - ? WHERE id = ? AND stock >= ?
// Dua validate bersamaan atas stok yang sama tidak mungkin dua-duanya lolos.
func decrementStock(tx *gorm.DB, menu *models.Menu, qty int) error {
	res := tx.Model(&models.Menu{}).
		Where("id = ? AND stock >= ?", menu.ID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Baca ulang stok untuk pesan error yang akurat
		var current models.Menu
		if err := tx.Select("stock").First(&current, menu.ID).Error; err == nil {
			menu.Stock = current.Stock
		}
		return &InsufficientStockError{MenuID: menu.ID, Name: menu.Name, Available: menu.Stock}
	}
	return nil
}

// incrementStock mengembalikan stok yang sudah direservasi; tanpa guard.
func incrementStock(tx *gorm.DB, menuID uint, qty int) error {
	return tx.Model(&models.Menu{}).
		Where("id = ?", menuID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

/*
========================================
 ORDER LIFECYCLE
========================================
*/

// CreateOrder membuat order pending beserta itemnya dalam satu transaksi.
// Stok TIDAK dikurangi di sini; reservasi terjadi saat validate.
func (s *OrderService) CreateOrder(tableID uint, items []ItemRequest) (*models.Order, error) {
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}
		if !table.IsActive {
			return ErrTableInactive
		}

		qty, menuIDs := aggregateQuantities(items)

		menus, err := loadMenus(tx, menuIDs)
		if err != nil {
			return err
		}

		// Urutan validasi: exists -> unarchived -> available -> stok cukup
		for _, id := range menuIDs {
			if _, ok := menus[id]; !ok {
				return &MenuItemNotFoundError{MenuID: id}
			}
		}
		for _, id := range menuIDs {
			if m := menus[id]; m.IsArchived || !m.IsAvailable {
				return &ItemUnavailableError{MenuID: id, Name: m.Name}
			}
		}
		for _, id := range menuIDs {
			if m := menus[id]; m.Stock < qty[id] {
				return &InsufficientStockError{MenuID: id, Name: m.Name, Available: m.Stock}
			}
		}

		now := time.Now()
		order := models.Order{
			TableID:   tableID,
			Status:    models.OrderStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		var total int64
		for _, id := range menuIDs {
			total += menus[id].Price * int64(qty[id])
		}
		order.TotalPrice = total

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, id := range menuIDs {
			m := menus[id]
			item := models.OrderItem{
				OrderID:  order.ID,
				MenuID:   m.ID,
				MenuName: m.Name, // snapshot nama
				Quantity: qty[id],
				Price:    m.Price, // snapshot harga satuan
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// ValidateOrder -> admin mengonfirmasi order akan diproses dapur.
// pending -> validated, stok direservasi (dikurangi) tepat satu kali di sini.
func (s *OrderService) ValidateOrder(orderID uint) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrderWithItems(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending {
			return &InvalidStateError{Action: "validate", Status: order.Status}
		}

		var table models.Table
		if err := tx.First(&table, order.TableID).Error; err != nil {
			return err
		}
		if !table.IsActive {
			return ErrTableInactive
		}

		// Klaim transisi dulu: kalau ada validate/cancel bersamaan,
		// hanya satu yang kena baris ini.
		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"status":       models.OrderStatusValidated,
				"validated_at": now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &InvalidStateError{Action: "validate", Status: order.Status}
		}

		// Cek ulang item + reservasi stok di dalam transaksi yang sama
		for i := range order.OrderItems {
			item := &order.OrderItems[i]
			var menu models.Menu
			if err := tx.First(&menu, item.MenuID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &MenuItemNotFoundError{MenuID: item.MenuID}
				}
				return err
			}
			if !menu.CanBeOrdered() {
				return &ItemUnavailableError{MenuID: menu.ID, Name: menu.Name}
			}
			if err := decrementStock(tx, &menu, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// PayOrder -> validated -> paid. Membuat tepat satu baris Payment (success).
// Stok tidak disentuh: sudah direservasi saat validate.
func (s *OrderService) PayOrder(orderID uint, method string) (*models.Order, *models.Payment, error) {
	if method != models.PaymentMethodCash && method != models.PaymentMethodQRIS {
		return nil, nil, fmt.Errorf("unsupported payment method: %s", method)
	}

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrderWithItems(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusValidated {
			return &InvalidStateError{Action: "pay", Status: order.Status}
		}

		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusValidated).
			Updates(map[string]interface{}{
				"status":         models.OrderStatusPaid,
				"payment_method": method,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &InvalidStateError{Action: "pay", Status: order.Status}
		}

		payment = models.Payment{
			OrderID:     order.ID,
			Method:      method,
			Status:      models.PaymentStatusSuccess,
			Amount:      order.TotalPrice,
			ReferenceID: uuid.New().String(),
			PaidAt:      &now,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, nil, err
	}
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, &payment, nil
}

// ServeOrder -> dapur menyajikan order ke meja (dari validated atau paid).
func (s *OrderService) ServeOrder(orderID uint) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrderWithItems(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusValidated && order.Status != models.OrderStatusPaid {
			return &InvalidStateError{Action: "serve", Status: order.Status}
		}

		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID,
				[]models.OrderStatus{models.OrderStatusValidated, models.OrderStatusPaid}).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusServed,
				"served_at":  now,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &InvalidStateError{Action: "serve", Status: order.Status}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// UnserveOrder -> rollback status sajikan. Kembali ke paid kalau sudah ada
// Payment success, kalau belum ke validated.
func (s *OrderService) UnserveOrder(orderID uint) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrderWithItems(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusServed {
			return &InvalidStateError{Action: "unserve", Status: order.Status}
		}

		var paidCount int64
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ? AND status = ?", order.ID, models.PaymentStatusSuccess).
			Count(&paidCount).Error; err != nil {
			return err
		}
		next := models.OrderStatusValidated
		if paidCount > 0 {
			next = models.OrderStatusPaid
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusServed).
			Updates(map[string]interface{}{
				"status":     next,
				"served_at":  nil,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &InvalidStateError{Action: "unserve", Status: order.Status}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

// CancelOrder membatalkan order. Dari pending bebas (customer sendiri boleh);
// dari validated hanya admin, karena stok yang sudah direservasi dikembalikan.
func (s *OrderService) CancelOrder(orderID uint, privileged bool) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrderWithItems(tx, orderID)
		if err != nil {
			return err
		}

		switch order.Status {
		case models.OrderStatusPending:
			// tidak ada stok yang direservasi, cukup ganti status
		case models.OrderStatusValidated:
			if !privileged {
				return ErrCancelNeedsAdmin
			}
		default:
			return &InvalidStateError{Action: "cancel", Status: order.Status}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusCancelled,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &InvalidStateError{Action: "cancel", Status: order.Status}
		}

		if order.Status == models.OrderStatusValidated {
			// kembalikan reservasi
			for _, item := range order.OrderItems {
				if err := incrementStock(tx, item.MenuID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

/*
========================================
 ITEM-EDIT RECONCILIATION
========================================
*/

// EditOrderItems mengganti seluruh line items order pending/validated.
// Rekonsiliasi tiga himpunan: kuantitas lama, kuantitas baru (duplikat
// dijumlahkan), dan stok live. Untuk order validated hanya delta yang
// dicek/diubah terhadap stok; untuk pending kuantitas baru penuh harus muat.
func (s *OrderService) EditOrderItems(orderID uint, items []ItemRequest) (*models.Order, error) {
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrderWithItems(tx, orderID)
		if err != nil {
			return err
		}
		if !order.CanEditItems() {
			return &InvalidStateError{Action: "edit items of", Status: order.Status}
		}

		oldQty := make(map[uint]int, len(order.OrderItems))
		oldPrice := make(map[uint]int64, len(order.OrderItems))
		oldName := make(map[uint]string, len(order.OrderItems))
		for _, it := range order.OrderItems {
			oldQty[it.MenuID] += it.Quantity
			oldPrice[it.MenuID] = it.Price
			oldName[it.MenuID] = it.MenuName
		}

		newQty, newIDs := aggregateQuantities(items)

		// Union menu ids yang tersentuh (baru dulu, lalu yang dihapus)
		touched := append([]uint{}, newIDs...)
		for id := range oldQty {
			if _, ok := newQty[id]; !ok {
				touched = append(touched, id)
			}
		}

		menus, err := loadMenus(tx, touched)
		if err != nil {
			return err
		}
		for _, id := range newIDs {
			if _, ok := menus[id]; !ok {
				return &MenuItemNotFoundError{MenuID: id}
			}
		}

		// Fase guard: semua pelanggaran terdeteksi sebelum ada mutasi
		for _, id := range touched {
			delta := newQty[id] - oldQty[id]
			m, ok := menus[id]
			if !ok {
				continue // item lama yang menunya sudah tidak ada; hanya dihapus
			}
			if delta > 0 && !m.CanBeOrdered() {
				return &ItemUnavailableError{MenuID: m.ID, Name: m.Name}
			}
			if order.Status == models.OrderStatusPending && m.Stock < newQty[id] {
				// belum ada reservasi, kuantitas baru penuh harus muat
				return &InsufficientStockError{MenuID: m.ID, Name: m.Name, Available: m.Stock}
			}
		}

		// Untuk order validated, sesuaikan reservasi stok sebesar delta
		if order.Status == models.OrderStatusValidated {
			for _, id := range touched {
				delta := newQty[id] - oldQty[id]
				m, ok := menus[id]
				switch {
				case delta > 0:
					if err := decrementStock(tx, m, delta); err != nil {
						return err
					}
				case delta < 0 && ok:
					if err := incrementStock(tx, m.ID, -delta); err != nil {
						return err
					}
				}
			}
		}

		// Ganti seluruh set line items
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		var total int64
		for _, id := range newIDs {
			// Snapshot lama dipertahankan; harga katalog hanya untuk item baru
			price, hadPrice := oldPrice[id]
			name, hadName := oldName[id]
			if !hadPrice {
				price = menus[id].Price
			}
			if !hadName {
				name = menus[id].Name
			}
			item := models.OrderItem{
				OrderID:  order.ID,
				MenuID:   id,
				MenuName: name,
				Quantity: newQty[id],
				Price:    price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total += price * int64(newQty[id])
		}

		// Status tidak berubah; guard terhadap transisi bersamaan
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(map[string]interface{}{
				"total_price": total,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &InvalidStateError{Action: "edit items of", Status: order.Status}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID)
}

/*
========================================
 QUERIES
========================================
*/

// GetOrder -> detail order dengan table, items (beserta menu live) dan payments
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Table").
		Preload("OrderItems").
		Preload("OrderItems.Menu").
		Preload("Payments").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders dengan filter status/table opsional
func (s *OrderService) ListOrders(status models.OrderStatus, tableID uint) ([]models.Order, error) {
	q := s.db.Preload("Table").Preload("OrderItems").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if tableID != 0 {
		q = q.Where("table_id = ?", tableID)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// KitchenOrders -> order yang harus tampil di kitchen display
func (s *OrderService) KitchenOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Table").Preload("OrderItems").
		Where("status IN ?", []models.OrderStatus{models.OrderStatusValidated, models.OrderStatusPaid}).
		Order("validated_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

/*
========================================
 HELPERS
========================================
*/

func loadOrderWithItems(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func loadMenus(tx *gorm.DB, ids []uint) (map[uint]*models.Menu, error) {
	var rows []models.Menu
	if err := tx.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	menus := make(map[uint]*models.Menu, len(rows))
	for i := range rows {
		menus[rows[i].ID] = &rows[i]
	}
	return menus, nil
}
