package kds

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/cafe-order-app/models"
)

// Event types
const (
	EventOrderCreated   = "order_created"
	EventOrderUpdate    = "order_update"
	EventOrderValidated = "order_validated"
	EventOrderServed    = "order_served"
	EventOrderCancelled = "order_cancelled"
	EventPaymentSuccess = "payment_success"
	// Snapshot antrian dapur yang dikirim sekali saat client baru connect
	EventKitchenSnapshot = "kitchen_snapshot"
	EventTableUpdate    = "table_update"
	EventTableCreate    = "table_create"
	EventTableDelete    = "table_delete"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// KDSHub menampung semua client kitchen display (kitchen, staff, admin)
type KDSHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var kdsHub = KDSHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()
	kdsHub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()
	delete(kdsHub.clients, conn)
	conn.Close()
}

// BroadcastOrderEvent -> menyiarkan event lifecycle order ke semua client
func BroadcastOrderEvent(event string, order *models.Order) {
	if order == nil {
		return
	}
	broadcast(Message{
		Event: event,
		Data:  order,
	})
}

// BroadcastPaymentSuccess -> notifikasi pembayaran berhasil
func BroadcastPaymentSuccess(payment *models.Payment, order *models.Order) {
	broadcast(Message{
		Event: EventPaymentSuccess,
		Data: map[string]interface{}{
			"payment": payment,
			"order":   order,
		},
	})
}

// BroadcastTableEvent -> perubahan meja (create/update/delete)
func BroadcastTableEvent(event string, table *models.Table) {
	broadcast(Message{
		Event: event,
		Data:  table,
	})
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("kds: error marshalling message: %v", err)
		return
	}

	kdsHub.mutex.Lock()
	defer kdsHub.mutex.Unlock()

	for conn := range kdsHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// client mati, lepaskan
			delete(kdsHub.clients, conn)
			conn.Close()
		}
	}
}
