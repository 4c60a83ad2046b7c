package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	approvalapp "github.com/estatekit/backend/internal/application/approval"
	billingapp "github.com/estatekit/backend/internal/application/billing"
	ledgerapp "github.com/estatekit/backend/internal/application/ledger"
	"github.com/estatekit/backend/internal/infrastructure/auth"
	"github.com/estatekit/backend/internal/infrastructure/config"
	"github.com/estatekit/backend/internal/infrastructure/logger"
	"github.com/estatekit/backend/internal/infrastructure/notification"
	"github.com/estatekit/backend/internal/infrastructure/persistence"
	"github.com/estatekit/backend/internal/infrastructure/telemetry"
	"github.com/estatekit/backend/internal/interfaces/http/handler"
	"github.com/estatekit/backend/internal/interfaces/http/middleware"
	"github.com/estatekit/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting EstateKit Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	walletRepo := persistence.NewGormWalletRepository(db.DB)
	walletTxRepo := persistence.NewGormWalletTransactionRepository(db.DB)
	allocationRepo := persistence.NewGormAllocationRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	correctionRepo := persistence.NewGormCorrectionNoteRepository(db.DB)
	profileRepo := persistence.NewGormBillingProfileRepository(db.DB)
	levyHistoryRepo := persistence.NewGormLevyHistoryRepository(db.DB)
	houseRepo := persistence.NewGormHouseRepository(db.DB)
	residentHouseRepo := persistence.NewGormResidentHouseRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	approvalRepo := persistence.NewGormApprovalRequestRepository(db.DB)

	auditLogger := persistence.NewGormAuditLogger(db.DB, log)
	notifier := notification.NewLogNotifier(log)

	// Initialize application services
	walletService := ledgerapp.NewWalletService(walletRepo, walletTxRepo, invoiceRepo, allocationRepo, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, auditLogger, log)
	correctionService := billingapp.NewCorrectionService(invoiceRepo, correctionRepo, walletService, notifier, auditLogger, log)
	levyService := billingapp.NewLevyService(
		houseRepo, residentHouseRepo, profileRepo, levyHistoryRepo, invoiceRepo,
		walletService, notifier,
		billingapp.LevyConfig{DueWindowDays: cfg.Levy.DueWindowDays},
		log,
	)
	approvalService := approvalapp.NewApprovalService(
		approvalRepo, bankAccountRepo, houseRepo, profileRepo,
		walletService, notifier, auditLogger, log,
	)

	// Authentication and authorization
	jwtService := auth.NewJWTService(cfg.JWT)
	authorizer := auth.NewRoleAuthorizer()

	// Initialize HTTP handlers
	walletHandler := handler.NewWalletHandler(walletService, authorizer)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, authorizer)
	correctionHandler := handler.NewCorrectionHandler(correctionService, authorizer)
	levyHandler := handler.NewLevyHandler(levyService, authorizer)
	approvalHandler := handler.NewApprovalHandler(approvalService, authorizer)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	// Health check endpoint (outside API versioning, no authentication)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuth(jwtService, log))
	r.Register(walletHandler).
		Register(invoiceHandler).
		Register(correctionHandler).
		Register(levyHandler).
		Register(approvalHandler)
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

// healthHandler reports process and database liveness
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
