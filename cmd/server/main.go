package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	scanapp "github.com/chafiq1992/order-scanner/internal/application/scanning"
	"github.com/chafiq1992/order-scanner/internal/domain/scanning"
	"github.com/chafiq1992/order-scanner/internal/domain/store"
	"github.com/chafiq1992/order-scanner/internal/infrastructure/config"
	"github.com/chafiq1992/order-scanner/internal/infrastructure/lock"
	"github.com/chafiq1992/order-scanner/internal/infrastructure/logger"
	"github.com/chafiq1992/order-scanner/internal/infrastructure/persistence"
	"github.com/chafiq1992/order-scanner/internal/infrastructure/shopify"
	"github.com/chafiq1992/order-scanner/internal/interfaces/http/handler"
	"github.com/chafiq1992/order-scanner/internal/interfaces/http/middleware"
	"github.com/chafiq1992/order-scanner/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting order scanner",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Int("stores", len(cfg.Stores)),
	)

	// Database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Per-order scan lock, Redis-backed when configured
	lockFactory := lock.NewScanLockFactory(cfg.Redis,
		lock.WithLogger(log),
		lock.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	scanLock, err := lockFactory.CreateLock()
	if err != nil {
		log.Fatal("Failed to create scan lock", zap.Error(err))
	}
	defer func() {
		if err := scanLock.Close(); err != nil {
			log.Error("Error closing scan lock", zap.Error(err))
		}
	}()

	// One Shopify client per configured store
	clients := make([]store.Client, 0, len(cfg.Stores))
	for _, sc := range cfg.Stores {
		adapter, err := shopify.NewAdapter(&shopify.Config{
			Name:          sc.Name,
			Domain:        sc.Domain,
			APIKey:        sc.APIKey,
			Password:      sc.Password,
			Timeout:       cfg.Scan.LookupTimeout,
			RetryAttempts: cfg.Scan.LookupRetries,
			RetryDelay:    cfg.Scan.LookupRetryDelay,
		})
		if err != nil {
			log.Fatal("Failed to configure store", zap.String("store", sc.Name), zap.Error(err))
		}
		clients = append(clients, adapter)
	}

	// Repositories and application services
	scanRepo := persistence.NewGormScanRepository(db.DB)
	lookupService := scanapp.NewOrderLookupService(clients, cfg.Scan.OrderCutoff, cfg.Scan.LookupTimeout, log)
	policy := scanning.NewDuplicatePolicy(cfg.Scan.OrderWindow, cfg.Scan.PhoneWindow)
	scanService := scanapp.NewScanService(scanRepo, lookupService, scanLock, policy, scanapp.ScanServiceConfig{
		MaxBarcodeDigits: cfg.Scan.MaxBarcodeDigits,
		PhoneCountryCode: cfg.Scan.PhoneCountryCode,
		LockTTL:          cfg.Scan.LockTTL,
	}, log)
	ledgerService := scanapp.NewLedgerService(scanRepo)

	// HTTP engine and middleware
	middleware.SetupValidator()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Routes
	systemHandler := handler.NewSystemHandler(db)
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewScanHandler(scanService, ledgerService))
	r.Register(systemHandler)
	r.Setup()

	// Unversioned alias for load balancer probes.
	engine.GET("/health", systemHandler.Health)

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
