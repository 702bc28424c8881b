package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nsine/wisepay-backend/config"
	"github.com/nsine/wisepay-backend/internal/crawler"
	"github.com/nsine/wisepay-backend/internal/handlers"
	"github.com/nsine/wisepay-backend/internal/middleware"
	"github.com/nsine/wisepay-backend/internal/purchases"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	crawlerClient := crawler.NewClient(cfg.CrawlerBaseURL)
	purchaseService := purchases.NewService(purchases.NewGormStore(db), crawlerClient)

	r := gin.Default()

	setupRoutes(r, db, purchaseService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, purchaseService *purchases.Service) {
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.PurchaseServiceMiddleware(purchaseService))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		userProtected := protected.Group("/users")
		{
			userProtected.GET("", handlers.ListUsers)
			userProtected.GET("/me", handlers.GetMe)
			userProtected.GET("/:id", handlers.GetUser)
		}

		purchaseProtected := protected.Group("/purchases")
		{
			purchaseProtected.GET("", handlers.ListMyPurchases)
			purchaseProtected.POST("/store", handlers.CreateStoreOrder)
			purchaseProtected.GET("/:id", handlers.GetPurchase)
			purchaseProtected.PUT("/:id/order", handlers.UpdateOrderItems)
			purchaseProtected.POST("/:id/submit", handlers.SubmitOrder)
			purchaseProtected.POST("/:id/payoff", handlers.PayOffPurchase)
		}

		storeProtected := protected.Group("/stores")
		{
			storeProtected.GET("", handlers.ListStores)
			storeProtected.GET("/items", handlers.GetItems)
			storeProtected.GET("/:id", handlers.GetStoreContent)
		}
	}
}
