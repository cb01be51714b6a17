package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appinventory "github.com/store/backend/internal/application/inventory"
	apporder "github.com/store/backend/internal/application/order"
	"github.com/store/backend/internal/infrastructure/auth"
	"github.com/store/backend/internal/infrastructure/cache"
	"github.com/store/backend/internal/infrastructure/config"
	"github.com/store/backend/internal/infrastructure/logger"
	"github.com/store/backend/internal/infrastructure/payment"
	"github.com/store/backend/internal/infrastructure/persistence"
	"github.com/store/backend/internal/interfaces/http/handler"
	"github.com/store/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Cart snapshots live in the Redis keyspace shared with the cart service
	cartStore, err := cache.NewRedisCartStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))

	// Payment gateway
	gateway, err := payment.NewPaystackAdapter(&payment.PaystackConfig{
		SecretKey:   cfg.Paystack.SecretKey,
		BaseURL:     cfg.Paystack.BaseURL,
		CallbackURL: cfg.Paystack.CallbackURL,
	})
	if err != nil {
		log.Fatal("Failed to initialize Paystack adapter", zap.Error(err))
	}

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	stockRepo := persistence.NewGormProductStockRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	pricingPolicy := apporder.PricingPolicy{
		FreeShippingThreshold: cfg.Checkout.FreeShippingThresholdAmount(),
		FlatShippingFee:       cfg.Checkout.FlatShippingFeeAmount(),
	}
	checkoutService := apporder.NewCheckoutService(txScope, orderRepo, cartStore, gateway, pricingPolicy)
	settlementService := apporder.NewSettlementService(txScope, orderRepo, cartStore, gateway)
	orderService := apporder.NewOrderService(orderRepo)
	inventoryService := appinventory.NewInventoryService(stockRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.Setup(router.Config{
		Logger:     log,
		JWTService: jwtService,
		HTTP:       cfg.HTTP,
		Checkout:   handler.NewCheckoutHandler(checkoutService),
		Order:      handler.NewOrderHandler(orderService, settlementService),
		Payment:    handler.NewPaymentHandler(settlementService),
		Inventory:  handler.NewInventoryHandler(inventoryService),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
