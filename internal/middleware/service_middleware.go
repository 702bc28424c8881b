package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nsine/wisepay-backend/internal/purchases"
)

func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

func PurchaseServiceMiddleware(svc *purchases.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("purchase_service", svc)
		c.Next()
	}
}

func GetPurchaseService(c *gin.Context) *purchases.Service {
	svc, exists := c.Get("purchase_service")
	if !exists {
		return nil
	}
	return svc.(*purchases.Service)
}
