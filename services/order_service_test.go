package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/models"
)

// setupServiceDB -> sqlite in-memory terpisah per test (nama unik supaya
// shared cache tidak bocor antar test)
func setupServiceDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Table{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedTable(t *testing.T, db *gorm.DB, number int, active bool) models.Table {
	table := models.Table{TableNumber: number, IsActive: active}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("failed to seed table: %v", err)
	}
	return table
}

func seedMenu(t *testing.T, db *gorm.DB, name string, price int64, stock int) models.Menu {
	menu := models.Menu{Name: name, Price: price, Stock: stock, IsAvailable: true}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	return menu
}

func menuStock(t *testing.T, db *gorm.DB, menuID uint) int {
	var menu models.Menu
	if err := db.First(&menu, menuID).Error; err != nil {
		t.Fatalf("failed to reload menu: %v", err)
	}
	return menu.Stock
}

// assertTotalMatchesSnapshots -> totalPrice harus sama dengan jumlah snapshot * qty
func assertTotalMatchesSnapshots(t *testing.T, order *models.Order) {
	var sum int64
	for _, item := range order.OrderItems {
		sum += item.Price * int64(item.Quantity)
	}
	assert.Equal(t, sum, order.TotalPrice)
}

/*
========================================
 CREATE
========================================
*/

func TestCreateOrderDoesNotReserveStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Es Kopi Susu", 18000, 5)

	order, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 5}})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(5*18000), order.TotalPrice)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Es Kopi Susu", order.OrderItems[0].MenuName)
	assert.Equal(t, int64(18000), order.OrderItems[0].Price)

	// stok belum tersentuh sebelum validate
	assert.Equal(t, 5, menuStock(t, db, menu.ID))
	assertTotalMatchesSnapshots(t, order)
}

func TestCreateOrderValidationOrder(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	inactive := seedTable(t, db, 2, false)
	menu := seedMenu(t, db, "Roti Bakar", 12000, 3)

	// table tidak ada
	_, err := svc.CreateOrder(999, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	assert.ErrorIs(t, err, ErrTableNotFound)

	// table tidak aktif
	_, err = svc.CreateOrder(inactive.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	assert.ErrorIs(t, err, ErrTableInactive)

	// menu tidak ada
	_, err = svc.CreateOrder(table.ID, []ItemRequest{{MenuID: 999, Quantity: 1}})
	var notFound *MenuItemNotFoundError
	assert.True(t, errors.As(err, &notFound))

	// menu diarsip
	archived := seedMenu(t, db, "Menu Lama", 10000, 10)
	db.Model(&archived).Updates(map[string]interface{}{"is_archived": true, "is_available": false})
	_, err = svc.CreateOrder(table.ID, []ItemRequest{{MenuID: archived.ID, Quantity: 1}})
	var unavailable *ItemUnavailableError
	assert.True(t, errors.As(err, &unavailable))

	// stok kurang
	_, err = svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 4}})
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Available)

	// item kosong
	_, err = svc.CreateOrder(table.ID, nil)
	assert.Error(t, err)
}

func TestCreateOrderSumsDuplicateMenuIDs(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Tahu Goreng", 8000, 10)

	order, err := svc.CreateOrder(table.ID, []ItemRequest{
		{MenuID: menu.ID, Quantity: 2},
		{MenuID: menu.ID, Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, 5, order.OrderItems[0].Quantity)
	assert.Equal(t, int64(5*8000), order.TotalPrice)
}

/*
========================================
 VALIDATE (reservasi stok)
========================================
*/

func TestValidateReservesStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Nasi Goreng", 25000, 5)

	order, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 5}})
	assert.NoError(t, err)
	assert.Equal(t, 5, menuStock(t, db, menu.ID))

	validated, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusValidated, validated.Status)
	assert.NotNil(t, validated.ValidatedAt)
	assert.Equal(t, 0, menuStock(t, db, menu.ID))
}

func TestValidateSharedStockContention(t *testing.T) {
	// Dua order dibuat saat stok masih cukup untuk masing-masing;
	// hanya satu yang bisa lolos validate.
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Ayam Bakar", 30000, 5)

	first, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 5}})
	assert.NoError(t, err)
	second, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	assert.NoError(t, err)

	_, err = svc.ValidateOrder(first.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, menuStock(t, db, menu.ID))

	_, err = svc.ValidateOrder(second.ID)
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))

	// rollback penuh: order kedua tetap pending, stok tidak pernah negatif
	reloaded, err := svc.GetOrder(second.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
	assert.Equal(t, 0, menuStock(t, db, menu.ID))
}

func TestValidateContentionParallel(t *testing.T) {
	// SQLite butuh file + BEGIN IMMEDIATE + busy timeout supaya dua writer
	// paralel terserialisasi, bukan gagal dengan "database is locked".
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate",
		filepath.Join(t.TempDir(), "contention.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Table{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Ayam Geprek", 27000, 5)

	// Dua order atas stok yang sama, masing-masing butuh seluruh stok
	first, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 5}})
	assert.NoError(t, err)
	second, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 5}})
	assert.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, orderID := range []uint{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, orderID uint) {
			defer wg.Done()
			_, results[i] = svc.ValidateOrder(orderID)
		}(i, orderID)
	}
	wg.Wait()

	// Tepat satu validate berhasil, yang lain kalah karena stok
	var succeeded, rejected int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var insufficient *InsufficientStockError
		assert.True(t, errors.As(err, &insufficient), "unexpected error: %v", err)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	// Stok habis tepat sekali, tidak pernah negatif
	assert.Equal(t, 0, menuStock(t, db, menu.ID))
}

func TestValidatePartialFailureRollsBackAllStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	plenty := seedMenu(t, db, "Teh Manis", 5000, 100)
	scarce := seedMenu(t, db, "Rendang", 40000, 1)

	order, err := svc.CreateOrder(table.ID, []ItemRequest{
		{MenuID: plenty.ID, Quantity: 2},
		{MenuID: scarce.ID, Quantity: 1},
	})
	assert.NoError(t, err)

	// habiskan stok rendang lewat order lain
	other, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: scarce.ID, Quantity: 1}})
	assert.NoError(t, err)
	_, err = svc.ValidateOrder(other.ID)
	assert.NoError(t, err)

	_, err = svc.ValidateOrder(order.ID)
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))

	// decrement teh manis ikut di-rollback
	assert.Equal(t, 100, menuStock(t, db, plenty.ID))
	reloaded, _ := svc.GetOrder(order.ID)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
}

func TestValidateRejectsInactiveTable(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Bakso", 20000, 10)

	order, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	assert.NoError(t, err)

	// meja dinonaktifkan setelah order dibuat
	db.Model(&models.Table{}).Where("id = ?", table.ID).Update("is_active", false)

	_, err = svc.ValidateOrder(order.ID)
	assert.ErrorIs(t, err, ErrTableInactive)
	assert.Equal(t, 10, menuStock(t, db, menu.ID))
}

func TestValidateRejectsArchivedItem(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Soto", 22000, 10)

	order, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	assert.NoError(t, err)

	// menu diarsip setelah order dibuat
	db.Model(&models.Menu{}).Where("id = ?", menu.ID).
		Updates(map[string]interface{}{"is_archived": true, "is_available": false})

	_, err = svc.ValidateOrder(order.ID)
	var unavailable *ItemUnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.Equal(t, 10, menuStock(t, db, menu.ID))
}

/*
========================================
 PAY
========================================
*/

func TestPayRequiresValidatedStatus(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Mie Ayam", 15000, 10)

	order, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 2}})
	assert.NoError(t, err)

	// bayar dari pending -> InvalidState
	_, _, err = svc.PayOrder(order.ID, models.PaymentMethodCash)
	var invalid *InvalidStateError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, models.OrderStatusPending, invalid.Status)
}

func TestPayCreatesExactlyOnePayment(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Mie Ayam", 15000, 10)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 2}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)

	paid, payment, err := svc.PayOrder(order.ID, models.PaymentMethodQRIS)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, paid.Status)
	assert.Equal(t, models.PaymentMethodQRIS, *paid.PaymentMethod)
	assert.Equal(t, models.PaymentStatusSuccess, payment.Status)
	assert.Equal(t, paid.TotalPrice, payment.Amount)
	assert.NotNil(t, payment.PaidAt)
	assert.NotEmpty(t, payment.ReferenceID)

	// stok tidak berubah saat bayar (sudah direservasi saat validate)
	assert.Equal(t, 8, menuStock(t, db, menu.ID))

	var count int64
	db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// bayar dua kali -> InvalidState, tetap satu payment
	_, _, err = svc.PayOrder(order.ID, models.PaymentMethodCash)
	var invalid *InvalidStateError
	assert.True(t, errors.As(err, &invalid))
	db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPayRejectsUnknownMethod(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)

	_, _, err := svc.PayOrder(1, "transfer")
	assert.Error(t, err)
}

/*
========================================
 SERVE / UNSERVE
========================================
*/

func TestServeAndUnserveWithoutPayment(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Gado Gado", 17000, 10)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)

	served, err := svc.ServeOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusServed, served.Status)
	assert.NotNil(t, served.ServedAt)

	// belum ada payment -> kembali ke validated
	unserved, err := svc.UnserveOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusValidated, unserved.Status)
	assert.Nil(t, unserved.ServedAt)
}

func TestUnserveReturnsToPaidWhenPaymentExists(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Sate Ayam", 28000, 10)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)
	_, _, err = svc.PayOrder(order.ID, models.PaymentMethodCash)
	assert.NoError(t, err)

	served, err := svc.ServeOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusServed, served.Status)

	unserved, err := svc.UnserveOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, unserved.Status)
	assert.Nil(t, unserved.ServedAt)
}

/*
========================================
 CANCEL
========================================
*/

func TestCancelPendingLeavesStockUntouched(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Pisang Goreng", 9000, 7)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 3}})

	// customer (tanpa privilege) boleh membatalkan order pending
	cancelled, err := svc.CancelOrder(order.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 7, menuStock(t, db, menu.ID))
}

func TestCancelValidatedRestoresStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menuA := seedMenu(t, db, "Kopi Tubruk", 10000, 6)
	menuB := seedMenu(t, db, "Singkong Keju", 12000, 4)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{
		{MenuID: menuA.ID, Quantity: 2},
		{MenuID: menuB.ID, Quantity: 4},
	})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4, menuStock(t, db, menuA.ID))
	assert.Equal(t, 0, menuStock(t, db, menuB.ID))

	// validate lalu cancel -> stok kembali persis (round-trip)
	cancelled, err := svc.CancelOrder(order.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 6, menuStock(t, db, menuA.ID))
	assert.Equal(t, 4, menuStock(t, db, menuB.ID))
}

func TestCancelValidatedRequiresPrivilege(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Lontong", 11000, 5)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)

	_, err = svc.CancelOrder(order.ID, false)
	assert.ErrorIs(t, err, ErrCancelNeedsAdmin)

	// reservasi tidak berubah
	assert.Equal(t, 4, menuStock(t, db, menu.ID))
	reloaded, _ := svc.GetOrder(order.ID)
	assert.Equal(t, models.OrderStatusValidated, reloaded.Status)
}

/*
========================================
 STATE MACHINE COMPLETENESS
========================================
*/

// orderInStatus menyiapkan satu order pada status tertentu lewat lifecycle asli
func orderInStatus(t *testing.T, db *gorm.DB, svc *OrderService, status models.OrderStatus) uint {
	// nomor meja unik per pemanggilan
	var count int64
	db.Model(&models.Table{}).Count(&count)
	table := seedTable(t, db, 1000+int(count), true)

	menu := seedMenu(t, db, fmt.Sprintf("Item-%s-%d", status, count), 10000, 100)
	order, err := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	switch status {
	case models.OrderStatusPending:
	case models.OrderStatusValidated:
		_, err = svc.ValidateOrder(order.ID)
	case models.OrderStatusPaid:
		if _, err = svc.ValidateOrder(order.ID); err == nil {
			_, _, err = svc.PayOrder(order.ID, models.PaymentMethodCash)
		}
	case models.OrderStatusServed:
		if _, err = svc.ValidateOrder(order.ID); err == nil {
			_, err = svc.ServeOrder(order.ID)
		}
	case models.OrderStatusCancelled:
		_, err = svc.CancelOrder(order.ID, false)
	}
	if err != nil {
		t.Fatalf("failed to drive order to %s: %v", status, err)
	}
	return order.ID
}

func TestUnlistedTransitionsAreRejected(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)

	actions := map[string]func(orderID uint) error{
		"validate": func(id uint) error { _, err := svc.ValidateOrder(id); return err },
		"pay":      func(id uint) error { _, _, err := svc.PayOrder(id, models.PaymentMethodCash); return err },
		"serve":    func(id uint) error { _, err := svc.ServeOrder(id); return err },
		"unserve":  func(id uint) error { _, err := svc.UnserveOrder(id); return err },
		"cancel":   func(id uint) error { _, err := svc.CancelOrder(id, true); return err },
		"edit": func(id uint) error {
			_, err := svc.EditOrderItems(id, []ItemRequest{{MenuID: 1, Quantity: 1}})
			return err
		},
	}

	// Semua pasangan (status, aksi) yang TIDAK ada di tabel transisi
	illegal := map[models.OrderStatus][]string{
		models.OrderStatusPending:   {"pay", "serve", "unserve"},
		models.OrderStatusValidated: {"validate", "unserve"},
		models.OrderStatusPaid:      {"validate", "pay", "unserve", "cancel", "edit"},
		models.OrderStatusServed:    {"validate", "pay", "serve", "cancel", "edit"},
		models.OrderStatusCancelled: {"validate", "pay", "serve", "unserve", "cancel", "edit"},
	}

	for status, names := range illegal {
		for _, name := range names {
			orderID := orderInStatus(t, db, svc, status)
			err := actions[name](orderID)
			var invalid *InvalidStateError
			assert.True(t, errors.As(err, &invalid),
				"expected InvalidState for %s on %s order, got: %v", name, status, err)
		}
	}
}

/*
========================================
 EDIT ITEMS
========================================
*/

func TestEditValidatedAdjustsStockByDelta(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Kopi Susu", 18000, 5)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 3}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, menuStock(t, db, menu.ID))

	// qty 3 -> 5: delta +2 muat di sisa stok 2
	edited, err := svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 5}})
	assert.NoError(t, err)
	assert.Equal(t, 0, menuStock(t, db, menu.ID))
	assert.Equal(t, int64(5*18000), edited.TotalPrice)

	// harga katalog berubah setelah order berjalan
	db.Model(&models.Menu{}).Where("id = ?", menu.ID).Update("price", 99000)

	// qty 5 -> 1: delta -4 dikembalikan, total tetap pakai snapshot lama
	edited, err = svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	assert.NoError(t, err)
	assert.Equal(t, 4, menuStock(t, db, menu.ID))
	assert.Equal(t, int64(1*18000), edited.TotalPrice)
	assert.Equal(t, int64(18000), edited.OrderItems[0].Price)
	assertTotalMatchesSnapshots(t, edited)
}

func TestEditValidatedDeltaExceedingStock(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Kopi Hitam", 12000, 4)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 3}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, menuStock(t, db, menu.ID))

	// delta +2 > sisa stok 1
	_, err = svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 5}})
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))

	// rollback penuh: stok dan items tidak berubah
	assert.Equal(t, 1, menuStock(t, db, menu.ID))
	reloaded, _ := svc.GetOrder(order.ID)
	assert.Len(t, reloaded.OrderItems, 1)
	assert.Equal(t, 3, reloaded.OrderItems[0].Quantity)
	assert.Equal(t, int64(3*12000), reloaded.TotalPrice)
}

func TestEditPendingChecksFullQuantity(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Es Teh", 6000, 4)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 3}})

	// pending: belum ada reservasi, kuantitas baru penuh (5) harus muat di stok (4)
	_, err := svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 5}})
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))

	// 4 masih muat, stok tetap tidak tersentuh
	edited, err := svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 4}})
	assert.NoError(t, err)
	assert.Equal(t, 4, menuStock(t, db, menu.ID))
	assert.Equal(t, int64(4*6000), edited.TotalPrice)
}

func TestEditNoOpKeepsStockAndTotal(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Cireng", 7000, 9)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 2}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 7, menuStock(t, db, menu.ID))

	// submit set item yang sama persis -> tidak ada perubahan
	edited, err := svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 2}})
	assert.NoError(t, err)
	assert.Equal(t, 7, menuStock(t, db, menu.ID))
	assert.Equal(t, int64(2*7000), edited.TotalPrice)
}

func TestEditAddsNewItemWithCatalogPrice(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	existing := seedMenu(t, db, "Kopi Susu", 18000, 10)
	extra := seedMenu(t, db, "Donat", 8000, 10)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: existing.ID, Quantity: 1}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)

	// harga item lama naik di katalog; snapshot order tidak boleh ikut
	db.Model(&models.Menu{}).Where("id = ?", existing.ID).Update("price", 25000)

	edited, err := svc.EditOrderItems(order.ID, []ItemRequest{
		{MenuID: existing.ID, Quantity: 1},
		{MenuID: extra.ID, Quantity: 2},
	})
	assert.NoError(t, err)
	assert.Len(t, edited.OrderItems, 2)
	assert.Equal(t, int64(1*18000+2*8000), edited.TotalPrice)
	assert.Equal(t, 9, menuStock(t, db, existing.ID)) // reservasi lama dipertahankan
	assert.Equal(t, 8, menuStock(t, db, extra.ID))    // item baru direservasi sebesar qty
	assertTotalMatchesSnapshots(t, edited)
}

func TestEditRemovingItemRestoresItsReservation(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	keep := seedMenu(t, db, "Kentang Goreng", 15000, 10)
	drop := seedMenu(t, db, "Es Jeruk", 8000, 10)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{
		{MenuID: keep.ID, Quantity: 1},
		{MenuID: drop.ID, Quantity: 3},
	})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 7, menuStock(t, db, drop.ID))

	edited, err := svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: keep.ID, Quantity: 1}})
	assert.NoError(t, err)
	assert.Len(t, edited.OrderItems, 1)
	assert.Equal(t, 10, menuStock(t, db, drop.ID))
	assert.Equal(t, int64(15000), edited.TotalPrice)
}

func TestEditRejectsArchivedItemOnlyForNewDemand(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Menu Musiman", 20000, 10)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 2}})
	_, err := svc.ValidateOrder(order.ID)
	assert.NoError(t, err)

	// item diarsip setelah direservasi
	db.Model(&models.Menu{}).Where("id = ?", menu.ID).
		Updates(map[string]interface{}{"is_archived": true, "is_available": false})

	// menambah permintaan item mati -> ditolak
	_, err = svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 3}})
	var unavailable *ItemUnavailableError
	assert.True(t, errors.As(err, &unavailable))

	// mengurangi qty item mati tetap boleh (delta negatif)
	edited, err := svc.EditOrderItems(order.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	assert.NoError(t, err)
	assert.Equal(t, 9, menuStock(t, db, menu.ID))
	assert.Equal(t, "Menu Musiman", edited.OrderItems[0].MenuName) // snapshot nama bertahan
}

func TestEditSumsDuplicateRequests(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, 1, true)
	menu := seedMenu(t, db, "Bakwan", 5000, 10)

	order, _ := svc.CreateOrder(table.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	edited, err := svc.EditOrderItems(order.ID, []ItemRequest{
		{MenuID: menu.ID, Quantity: 2},
		{MenuID: menu.ID, Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Len(t, edited.OrderItems, 1)
	assert.Equal(t, 5, edited.OrderItems[0].Quantity)
	assert.Equal(t, int64(5*5000), edited.TotalPrice)
}

/*
========================================
 QUERIES
========================================
*/

func TestListOrdersFilters(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)
	tableA := seedTable(t, db, 1, true)
	tableB := seedTable(t, db, 2, true)
	menu := seedMenu(t, db, "Kerupuk", 3000, 100)

	o1, _ := svc.CreateOrder(tableA.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	o2, _ := svc.CreateOrder(tableB.ID, []ItemRequest{{MenuID: menu.ID, Quantity: 1}})
	_, err := svc.ValidateOrder(o2.ID)
	assert.NoError(t, err)

	pending, err := svc.ListOrders(models.OrderStatusPending, 0)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, o1.ID, pending[0].ID)

	byTable, err := svc.ListOrders("", tableB.ID)
	assert.NoError(t, err)
	assert.Len(t, byTable, 1)
	assert.Equal(t, o2.ID, byTable[0].ID)

	kitchen, err := svc.KitchenOrders()
	assert.NoError(t, err)
	assert.Len(t, kitchen, 1)
	assert.Equal(t, o2.ID, kitchen[0].ID)
}

func TestGetOrderNotFound(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewOrderService(db)

	_, err := svc.GetOrder(12345)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
