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

	appbilling "github.com/backoffice/backend/internal/application/billing"
	"github.com/backoffice/backend/internal/infrastructure/cache"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
	"github.com/backoffice/backend/internal/interfaces/http/handler"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/backoffice/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
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

	log.Info("Starting billing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry (no-op providers when disabled)
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

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

	// Register query tracing on the GORM connection
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled: true,
			DBName:  cfg.Database.DBName,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories shared outside the transaction scope
	planRepo := persistence.NewGormSubscriptionPlanRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)

	// Transaction scope shared by all billing write paths
	scope := persistence.NewGormTransactionScope(db.DB)

	// Platform billing defaults exposed through the ConfigStore port
	platformSettings := config.NewPlatformSettings(cfg.Billing)

	// Provisioning guard: Redis when reachable, in-memory otherwise
	var guard appbilling.ProvisioningGuard
	redisGuard, err := cache.NewRedisProvisioningGuard(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Billing.GuardLockTTL)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory provisioning guard", zap.Error(err))
		guard = cache.NewInMemoryProvisioningGuard(cfg.Billing.GuardLockTTL)
	} else {
		defer func() {
			if err := redisGuard.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		guard = redisGuard
		log.Info("Redis provisioning guard ready", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize application services
	walletService := appbilling.NewWalletService(scope, platformSettings, log)
	subscriptionService := appbilling.NewSubscriptionService(scope, planRepo, tenantRepo, log)
	provisioningService := appbilling.NewProvisioningService(
		walletService, subscriptionService, planRepo, tenantRepo, guard, log)
	adminService := appbilling.NewAdminSubscriptionService(subscriptionService, planRepo, log)

	// GetCurrent self-repairs a missing subscription through the ensurer
	subscriptionService.SetEnsurer(provisioningService)

	// Business metrics
	billingMetrics, err := telemetry.NewBillingMetrics(telemetry.BillingMetricsConfig{
		Meter:  meterProvider.Meter("billing"),
		Logger: log,
	})
	if err != nil {
		log.Warn("Billing metrics unavailable", zap.Error(err))
	} else {
		walletService.SetBillingMetrics(billingMetrics)
		subscriptionService.SetBillingMetrics(billingMetrics)
		provisioningService.SetBillingMetrics(billingMetrics)
	}

	// Initialize handlers
	walletHandler := handler.NewWalletHandler(walletService)
	subscriptionHandler := handler.NewSubscriptionHandler(adminService)
	provisioningHandler := handler.NewProvisioningHandler(provisioningService)
	tenantHandler := handler.NewTenantHandler(tenantRepo, provisioningService, log)

	// Setup gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TraceAttributes())
	engine.Use(middleware.SpanErrorMarker())
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	tenantRoutes := router.NewDomainGroup("tenants", "/tenants")
	tenantRoutes.POST("", tenantHandler.Register)
	tenantRoutes.GET("/:tenantId", tenantHandler.Get)
	// Wallet
	tenantRoutes.GET("/:tenantId/wallet", walletHandler.GetWallet)
	tenantRoutes.POST("/:tenantId/wallet/credit", walletHandler.Credit)
	tenantRoutes.POST("/:tenantId/wallet/debit", walletHandler.Debit)
	tenantRoutes.GET("/:tenantId/wallet/transactions", walletHandler.ListTransactions)
	// Subscription
	tenantRoutes.GET("/:tenantId/subscription", subscriptionHandler.GetCurrent)
	tenantRoutes.POST("/:tenantId/subscription", subscriptionHandler.AssignPlan)
	tenantRoutes.DELETE("/:tenantId/subscription", subscriptionHandler.Deactivate)
	tenantRoutes.GET("/:tenantId/subscription/history", subscriptionHandler.History)
	// Provisioning
	tenantRoutes.POST("/:tenantId/provision", provisioningHandler.ProvisionTenant)

	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.GET("/plans", subscriptionHandler.ListPlans)
	billingRoutes.POST("/provisioning/run", provisioningHandler.ProvisionAll)

	r.Register(tenantRoutes).Register(billingRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
