package main

import (
	"log"
	"time"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/events"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/handler"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/middleware"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/service"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()

	// 2. Connect to Database
	database.Connect()

	// 3. Auto-Migrate Models
	log.Println("Running migrations...")

	err := database.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.PriceSlab{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.Banner{},
		&models.Announcement{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully.")

	// 3a. Seed Data
	database.SeedAdmin()

	// 4. Wire services
	bus := events.NewBus()
	defer bus.Close()
	orderService := service.NewOrderService(database.DB, bus)

	// 5. Initialize Router
	r := gin.Default()

	// CORS Configuration
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 6. Setup Routes
	authHandler := &handler.AuthHandler{}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	userRoutes := r.Group("/api/v1/user")
	userRoutes.Use(middleware.Auth())
	{
		userRoutes.PUT("/password", authHandler.ChangePassword)
	}

	publicHandler := &handler.PublicHandler{}
	publicRoutes := r.Group("/api/v1/public")
	{
		publicRoutes.GET("/site-info", publicHandler.GetSiteInfo)
		publicRoutes.GET("/config", publicHandler.GetPublicConfig)
		publicRoutes.GET("/products", publicHandler.ListProducts)
		publicRoutes.GET("/products/:id", publicHandler.GetProduct)
		publicRoutes.GET("/products/:id/inquiry", publicHandler.ProductInquiry)
		publicRoutes.GET("/categories", publicHandler.ListCategories)
		publicRoutes.GET("/banners", publicHandler.ListBanners)
		publicRoutes.GET("/announcements", publicHandler.ListAnnouncements)
	}

	cartHandler := &handler.CartHandler{}
	cartRoutes := r.Group("/api/v1/cart")
	cartRoutes.Use(middleware.Auth())
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.POST("/items", cartHandler.AddItem)
		cartRoutes.PUT("/items/:id", cartHandler.UpdateItem)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
		cartRoutes.POST("/merge", cartHandler.MergeCart)
	}

	orderHandler := &handler.OrderHandler{Orders: orderService}
	orderRoutes := r.Group("/api/v1/orders")
	orderRoutes.Use(middleware.Auth())
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.ListMyOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
		orderRoutes.POST("/:id/cancel", orderHandler.CancelOrder)
		orderRoutes.GET("/:id/support", orderHandler.SupportLink)
		orderRoutes.POST("/validate-coupon", orderHandler.ValidateCoupon)
	}

	paymentHandler := &handler.PaymentHandler{Orders: orderService}
	r.POST("/api/v1/payment/confirm", paymentHandler.Confirm)

	adminHandler := &handler.AdminHandler{Orders: orderService, Bus: bus}
	adminRoutes := r.Group("/api/v1/admin")
	adminRoutes.Use(middleware.Auth(models.RoleAdmin))
	{
		adminRoutes.GET("/products", adminHandler.ListAllProducts)
		adminRoutes.POST("/products", adminHandler.CreateProduct)
		adminRoutes.PUT("/products/:id", adminHandler.UpdateProduct)
		adminRoutes.PUT("/products/:id/slabs", adminHandler.ReplaceSlabs)
		adminRoutes.DELETE("/products/:id", adminHandler.DeleteProduct)

		adminRoutes.POST("/categories", adminHandler.CreateCategory)
		adminRoutes.DELETE("/categories/:id", adminHandler.DeleteCategory)

		adminRoutes.POST("/banners", adminHandler.CreateBanner)
		adminRoutes.PUT("/banners/:id", adminHandler.UpdateBanner)
		adminRoutes.DELETE("/banners/:id", adminHandler.DeleteBanner)

		adminRoutes.POST("/announcements", adminHandler.CreateAnnouncement)
		adminRoutes.DELETE("/announcements/:id", adminHandler.DeleteAnnouncement)

		adminRoutes.GET("/coupons", adminHandler.ListCoupons)
		adminRoutes.POST("/coupons", adminHandler.CreateCoupon)
		adminRoutes.PUT("/coupons/:id", adminHandler.UpdateCoupon)
		adminRoutes.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

		adminRoutes.GET("/orders", adminHandler.ListOrders)
		adminRoutes.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
		adminRoutes.GET("/orders/stream", adminHandler.StreamOrders)

		adminRoutes.GET("/dashboard", adminHandler.GetDashboardStats)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 7. Start Server
	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
