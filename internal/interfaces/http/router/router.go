package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/store/backend/internal/infrastructure/auth"
	"github.com/store/backend/internal/infrastructure/config"
	"github.com/store/backend/internal/infrastructure/logger"
	"github.com/store/backend/internal/interfaces/http/handler"
	"github.com/store/backend/internal/interfaces/http/middleware"
)

// Config bundles everything the router needs to wire the API surface
type Config struct {
	Logger     *zap.Logger
	JWTService *auth.JWTService
	HTTP       config.HTTPConfig

	Checkout  *handler.CheckoutHandler
	Order     *handler.OrderHandler
	Payment   *handler.PaymentHandler
	Inventory *handler.InventoryHandler
}

// Setup builds the gin engine with all middleware and routes registered
func Setup(cfg Config) *gin.Engine {
	engine := gin.New()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	// Gateway-facing endpoints. The webhook authenticates with its HMAC
	// signature, not a bearer token.
	payments := api.Group("/payments")
	{
		payments.POST("/webhook", cfg.Payment.Webhook)
		payments.GET("/verify/:reference", cfg.Payment.Verify)
	}

	// Buyer endpoints
	authed := api.Group("", middleware.JWTAuth(cfg.JWTService))
	{
		authed.POST("/checkout", cfg.Checkout.CreateOrder)
		authed.POST("/checkout/pay", cfg.Checkout.InitializePayment)

		orders := authed.Group("/orders")
		{
			orders.GET("", cfg.Order.List)
			orders.GET("/:id", cfg.Order.Get)
			orders.GET("/number/:number", cfg.Order.GetByNumber)
			orders.POST("/:id/cancel", cfg.Order.Cancel)
		}
	}

	// Back-office endpoints
	admin := api.Group("/admin", middleware.JWTAuth(cfg.JWTService), middleware.RequireAdmin())
	{
		admin.GET("/orders", cfg.Order.AdminList)
		admin.GET("/orders/:id", cfg.Order.AdminGet)
		admin.POST("/orders/:id/cancel", cfg.Order.AdminCancel)
		admin.PATCH("/orders/:id/status", cfg.Order.AdminUpdateStatus)
		admin.POST("/orders/:id/refund", cfg.Order.AdminRefund)

		admin.GET("/inventory/low-stock", cfg.Inventory.LowStock)
		admin.GET("/inventory/:productId", cfg.Inventory.GetStock)
		admin.POST("/inventory/:productId/receive", cfg.Inventory.ReceiveStock)
		admin.PUT("/inventory/:productId/threshold", cfg.Inventory.SetThreshold)
	}

	return engine
}
