package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/cafe-order-app/kds"
	"github.com/yeremiapane/cafe-order-app/services"
	"github.com/yeremiapane/cafe-order-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

// KDSHandler -> endpoint WebSocket untuk kitchen display / dashboard admin
func KDSHandler(c *gin.Context) {
	role := c.GetString("role")
	if role != "kitchen" && role != "staff" && role != "admin" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	kds.RegisterClient(ws, role)

	// Kirim snapshot antrian dapur saat connect supaya display langsung
	// terisi tanpa menunggu event berikutnya
	if db := utils.GetDB(); db != nil {
		if orders, err := services.NewOrderService(db).KitchenOrders(); err == nil {
			if err := ws.WriteJSON(kds.Message{Event: kds.EventKitchenSnapshot, Data: orders}); err != nil {
				utils.ErrorLogger.Printf("Failed to send kitchen snapshot: %v", err)
			}
		}
	}

	// Koneksi hanya untuk push; baca sampai client menutup
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kds.UnregisterClient(ws)
}
