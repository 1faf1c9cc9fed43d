package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
	financeapp "github.com/sellercentric/backend/internal/application/finance"
	"github.com/sellercentric/backend/internal/domain/catalog"
	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/finance"
	"github.com/sellercentric/backend/internal/domain/geo"
	"github.com/sellercentric/backend/internal/infrastructure/cache"
	"github.com/sellercentric/backend/internal/infrastructure/config"
	"github.com/sellercentric/backend/internal/infrastructure/logger"
	"github.com/sellercentric/backend/internal/infrastructure/marketplace"
	"github.com/sellercentric/backend/internal/infrastructure/notification"
	"github.com/sellercentric/backend/internal/infrastructure/persistence"
	"github.com/sellercentric/backend/internal/infrastructure/scheduler"
	"github.com/sellercentric/backend/internal/infrastructure/storage"
	"github.com/sellercentric/backend/internal/interfaces/http/handler"
	"github.com/sellercentric/backend/internal/interfaces/http/middleware"
	"github.com/sellercentric/backend/internal/interfaces/http/router"
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting SellerCentric Backend",
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

	// Initialize repositories
	docRepo := persistence.NewGormStagedDocumentRepository(db.DB)
	stagedOrderRepo := persistence.NewGormStagedOrderRepository(db.DB)
	stagedFeedRepo := persistence.NewGormStagedFeedRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	partyRepo := persistence.NewGormPartyRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	geoRepo := persistence.NewGormGeoRepository(db.DB)
	taxRepo := persistence.NewGormTaxJurisdictionRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	billingAccountRepo := persistence.NewGormBillingAccountRepository(db.DB)
	numberSvc := persistence.NewSequenceOrderNumberService(db.DB)
	importUow := persistence.NewGormImportUnitOfWork(db.DB)

	// Geo lookups run on every imported order and the reference data is
	// immutable, so reads go through a cache. Redis when reachable,
	// otherwise in-process.
	var geoLookup geo.GeoRepository
	redisGeoCache, err := cache.NewRedisGeoCache(&cfg.Redis, geoRepo, cache.WithGeoCacheLogger(log))
	if err != nil {
		log.Warn("Redis unavailable, using in-process geo cache", zap.Error(err))
		geoLookup = cache.NewInMemoryGeoCache(geoRepo)
	} else {
		defer func() {
			if err := redisGeoCache.Close(); err != nil {
				log.Error("Error closing redis geo cache", zap.Error(err))
			}
		}()
		geoLookup = redisGeoCache
	}

	// Marketplace API client and wire codecs
	mkt, err := marketplace.NewClient(&marketplace.Config{
		Endpoint:       cfg.Marketplace.Endpoint,
		SellerID:       cfg.Marketplace.SellerID,
		AuthToken:      cfg.Marketplace.AuthToken,
		RequestTimeout: cfg.Marketplace.RequestTimeout,
		MaxRetries:     cfg.Marketplace.MaxRetries,
	})
	if err != nil {
		log.Fatal("Failed to create marketplace client", zap.Error(err))
	}
	parser := marketplace.NewReportParser()
	feedBuilder := marketplace.NewFeedBuilder(cfg.Marketplace.SellerID)

	// Object storage for downloaded document archival
	var objectStorage feedapp.ObjectStorageService
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		objectStorage = s3Storage
	default:
		localStorage, err := storage.NewLocalObjectStorage(cfg.Storage.LocalPath)
		if err != nil {
			log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		objectStorage = localStorage
	}
	log.Info("Object storage ready", zap.String("provider", cfg.Storage.Provider))

	// Operator alerting
	notifier, err := notification.NewSMTPNotifier(&cfg.Notification, log)
	if err != nil {
		log.Fatal("Failed to initialize notifier", zap.Error(err))
	}

	// Initialize application services
	retryPolicy := feed.RetryPolicy{MaxFailures: cfg.Feed.MaxFailures}
	productResolver := catalog.NewProductResolver(productRepo, cfg.Feed.UseUPCAsSKU)
	geoResolver := geo.NewResolver(geoLookup)
	taxResolver := geo.NewTaxAuthorityResolver(taxRepo)

	syncService := feedapp.NewDocumentSyncService(docRepo, mkt, parser, objectStorage, notifier, retryPolicy, log)
	extractService := feedapp.NewExtractService(docRepo, stagedOrderRepo, parser, retryPolicy, log)
	extractService.SetBatchSize(cfg.Feed.ExtractBatchSize)
	importService := feedapp.NewImportService(
		stagedOrderRepo, orderRepo, partyRepo, numberSvc,
		productResolver, inventoryRepo, geoResolver, taxResolver,
		importUow, retryPolicy,
		feedapp.ImportConfig{
			FacilityID:          cfg.Feed.FacilityID,
			RequireInventory:    cfg.Feed.RequireInventory,
			RequireTaxAuthority: cfg.Feed.RequireTaxAuthority,
			AutoApprove:         cfg.Feed.AutoApproveOrders,
		},
		log,
	)
	importService.SetBatchSize(cfg.Feed.ImportBatchSize)
	ackService := feedapp.NewAckService(docRepo, stagedFeedRepo, mkt, feedBuilder, notifier, log)
	ackService.SetBatchSize(cfg.Feed.AckBatchSize)
	outboundService := feedapp.NewOutboundFeedService(productRepo, stagedFeedRepo, mkt, feedBuilder, inventoryRepo, log)

	billingAccountService := financeapp.NewBillingAccountService(billingAccountRepo, paymentRepo, orderRepo, log)
	statementService := financeapp.NewStatementService(invoiceRepo, paymentRepo, log)

	// Background job scheduler
	jobScheduler, err := scheduler.NewJobScheduler(scheduler.Config{
		Enabled:    cfg.Scheduler.Enabled,
		JobTimeout: cfg.Scheduler.JobTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}
	pipeline := scheduler.NewDocumentPipeline(syncService, extractService, importService)
	if err := scheduler.RegisterPipelineJobs(jobScheduler, &cfg.Scheduler, pipeline, ackService, outboundService, billingAccountService, log); err != nil {
		log.Fatal("Failed to register background jobs", zap.Error(err))
	}
	if err := jobScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer func() {
		if err := jobScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}()
	log.Info("Scheduler started",
		zap.Bool("enabled", cfg.Scheduler.Enabled),
		zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
	)

	// Initialize HTTP handlers
	documentHandler := handler.NewDocumentHandler(docRepo, stagedOrderRepo, objectStorage)
	jobHandler := handler.NewJobHandler(jobScheduler, outboundService)
	financeHandler := handler.NewFinanceHandler(billingAccountService, statementService)
	useAgingDate := cfg.Statement.UseAgingDate
	financeHandler.SetStatementDefaults(financeapp.StatementRequest{
		BucketDays:   cfg.Statement.BucketDays,
		BucketCount:  cfg.Statement.BucketCount,
		UseAgingDate: &useAgingDate,
		PeriodDays:   cfg.Statement.PeriodDays,
	})
	financeHandler.SetFinanceChargeDefaults(finance.FinanceChargeRate{
		AnnualRate: decimal.NewFromFloat(cfg.Statement.FinanceChargeRate),
		GraceDays:  cfg.Statement.FinanceChargeGrace,
	})
	systemHandler := handler.NewSystemHandler()

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

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(documentHandler).
		Register(jobHandler).
		Register(financeHandler)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
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
