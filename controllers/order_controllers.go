package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/kds"
	"github.com/yeremiapane/cafe-order-app/models"
	"github.com/yeremiapane/cafe-order-app/services"
	"github.com/yeremiapane/cafe-order-app/utils"
)

type OrderController struct {
	DB  *gorm.DB
	svc *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, svc: services.NewOrderService(db)}
}

// CreateOrder -> customer membuat order via QR (status='pending', stok belum dikurangi)
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		TableID uint                   `json:"table_id" binding:"required"`
		Items   []services.ItemRequest `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.svc.CreateOrder(body.TableID, body.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderEvent(kds.EventOrderCreated, order)
	utils.InfoLogger.Printf("Order #%d created for table %d (total=%s)",
		order.ID, order.Table.TableNumber, utils.FormatCurrencyIDR(order.TotalPrice))
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail 1 order beserta table, items, payments
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.svc.GetOrder(paramID(c, "order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders -> list order untuk admin, filter status/table opsional
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	var tableID uint
	if raw := c.Query("table_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		tableID = uint(id)
	}

	orders, err := oc.svc.ListOrders(status, tableID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// ValidateOrder -> admin konfirmasi order; stok direservasi di sini
func (oc *OrderController) ValidateOrder(c *gin.Context) {
	order, err := oc.svc.ValidateOrder(paramID(c, "order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderEvent(kds.EventOrderValidated, order)
	utils.InfoLogger.Printf("Order #%d validated, stock reserved", order.ID)
	utils.RespondJSON(c, http.StatusOK, "Order validated", order)
}

// UpdateOrderItems -> admin mengubah isi order pending/validated
func (oc *OrderController) UpdateOrderItems(c *gin.Context) {
	var body struct {
		Items []services.ItemRequest `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.svc.EditOrderItems(paramID(c, "order_id"), body.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderEvent(kds.EventOrderUpdate, order)
	utils.RespondJSON(c, http.StatusOK, "Order items updated", order)
}

// PayOrder -> mencatat pembayaran (cash/qris) untuk order validated
func (oc *OrderController) PayOrder(c *gin.Context) {
	var body struct {
		Method string `json:"method" binding:"required,oneof=cash qris"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, payment, err := oc.svc.PayOrder(paramID(c, "order_id"), body.Method)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastPaymentSuccess(payment, order)
	utils.InfoLogger.Printf("Order #%d paid via %s (%s)",
		order.ID, payment.Method, utils.FormatCurrencyIDR(payment.Amount))
	utils.RespondJSON(c, http.StatusOK, "Order paid", gin.H{
		"order":   order,
		"payment": payment,
	})
}

// ServeOrder -> dapur menyajikan order ke meja
func (oc *OrderController) ServeOrder(c *gin.Context) {
	order, err := oc.svc.ServeOrder(paramID(c, "order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderEvent(kds.EventOrderServed, order)
	utils.RespondJSON(c, http.StatusOK, "Order served", order)
}

// UnserveOrder -> rollback status sajikan (kembali ke paid/validated)
func (oc *OrderController) UnserveOrder(c *gin.Context) {
	order, err := oc.svc.UnserveOrder(paramID(c, "order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderEvent(kds.EventOrderUpdate, order)
	utils.RespondJSON(c, http.StatusOK, "Order unserved", order)
}

// CancelOrder -> customer boleh membatalkan order pending; order validated
// hanya bisa dibatalkan admin karena reservasi stok harus dikembalikan.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	privileged := c.GetString("role") == "admin"

	order, err := oc.svc.CancelOrder(paramID(c, "order_id"), privileged)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderEvent(kds.EventOrderCancelled, order)
	utils.InfoLogger.Printf("Order #%d cancelled", order.ID)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// GetKitchenDisplay -> order validated/paid yang harus dikerjakan dapur
func (oc *OrderController) GetKitchenDisplay(c *gin.Context) {
	orders, err := oc.svc.KitchenOrders()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen display orders", orders)
}

func paramID(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id)
}
