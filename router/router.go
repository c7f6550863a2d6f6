package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-order-app/controllers"
	"github.com/yeremiapane/cafe-order-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Rate limiter global per-IP; harus terpasang sebelum route didaftarkan
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	reportCtrl := controllers.NewReportController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (tanpa auth, via QR) --
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/tables/:table_number", tableCtrl.GetTableByNumber) // landing page QR

	// Order: customer membuat, melihat, dan membatalkan order pending.
	// Pembatalan order validated butuh token admin (dicek di service).
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/register", middlewares.RequireRoles("admin"), userCtrl.Register)

	// TABLES (admin)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", middlewares.RequireRoles("admin"), tableCtrl.CreateTable)
	auth.PATCH("/tables/:table_id", middlewares.RequireRoles("admin"), tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", middlewares.RequireRoles("admin"), tableCtrl.DeleteTable)

	// MENU CATEGORIES (admin)
	auth.POST("/categories", middlewares.RequireRoles("admin"), categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", middlewares.RequireRoles("admin"), categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", middlewares.RequireRoles("admin"), categoryCtrl.DeleteCategory)

	// MENUS (admin)
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.POST("/menus", middlewares.RequireRoles("admin"), menuCtrl.CreateMenu)
	auth.PATCH("/menus/:menu_id", middlewares.RequireRoles("admin"), menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", middlewares.RequireRoles("admin"), menuCtrl.DeleteMenu)

	// ORDERS (admin/staff): lifecycle serving workflow
	staff := middlewares.RequireRoles("admin", "staff")
	auth.GET("/orders", staff, orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", staff, orderCtrl.GetOrderByID)
	auth.POST("/orders/:order_id/validate", staff, orderCtrl.ValidateOrder)
	auth.PATCH("/orders/:order_id/items", staff, orderCtrl.UpdateOrderItems)
	auth.POST("/orders/:order_id/pay", staff, orderCtrl.PayOrder)
	auth.POST("/orders/:order_id/serve", orderCtrl.ServeOrder)
	auth.POST("/orders/:order_id/unserve", orderCtrl.UnserveOrder)
	auth.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

	// KITCHEN DISPLAY (semua role terautentikasi)
	auth.GET("/kitchen/display", orderCtrl.GetKitchenDisplay)

	// REPORTS (admin)
	reports := auth.Group("/reports")
	reports.Use(middlewares.RequireRoles("admin"))
	{
		reports.GET("/daily", reportCtrl.GetDailyReport)
		reports.GET("/summary", reportCtrl.GetSummaryReport)
		reports.GET("/export", reportCtrl.ExportCSV)
		reports.GET("/export-xlsx", reportCtrl.ExportXLSX)
		reports.GET("/export-pdf", reportCtrl.ExportPDF)
		reports.GET("/chart", reportCtrl.GetRevenueChart)
	}

	// WebSocket untuk kitchen display / dashboard
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("", controllers.KDSHandler)
	}

	return r
}
