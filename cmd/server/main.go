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

	"github.com/pazarhub/backend/internal/application/dispatch"
	appsync "github.com/pazarhub/backend/internal/application/sync"
	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/syncrun"
	"github.com/pazarhub/backend/internal/infrastructure/config"
	"github.com/pazarhub/backend/internal/infrastructure/crawler"
	"github.com/pazarhub/backend/internal/infrastructure/erp"
	"github.com/pazarhub/backend/internal/infrastructure/logger"
	mpadapter "github.com/pazarhub/backend/internal/infrastructure/marketplace"
	outboxinfra "github.com/pazarhub/backend/internal/infrastructure/outbox"
	"github.com/pazarhub/backend/internal/infrastructure/persistence"
	"github.com/pazarhub/backend/internal/infrastructure/runlock"
	"github.com/pazarhub/backend/internal/infrastructure/statusmap"
	"github.com/pazarhub/backend/internal/interfaces/http/handler"
	"github.com/pazarhub/backend/internal/interfaces/http/middleware"
	"github.com/pazarhub/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize zap logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Initialize database with GORM logger bridged to zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel,
		logger.WithSlowThreshold(200*time.Millisecond),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Run lock: Redis when configured, in-process otherwise
	var locker syncrun.Locker
	if cfg.Redis.Host != "" {
		redisLocker, err := runlock.NewRedisLocker(runlock.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisLocker.Close() }()
		locker = redisLocker
		log.Info("Using Redis run locker", zap.String("addr", cfg.Redis.Addr()))
	} else {
		locker = runlock.NewInMemoryLocker()
		log.Warn("Redis not configured, using in-memory run locker")
	}

	// Repositories
	orderRepo := persistence.NewGormCanonicalOrderRepository(db.DB)
	productRepo := persistence.NewGormCanonicalProductRepository(db.DB)
	questionRepo := persistence.NewGormCanonicalQuestionRepository(db.DB)
	returnRepo := persistence.NewGormCanonicalReturnRepository(db.DB)
	runRepo := persistence.NewGormSyncRunRepository(db.DB)
	itemLogRepo := persistence.NewGormItemLogRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)

	// Status normalization with per-installation overrides
	normalizer := statusmap.New()
	normalizer.LoadOverrides(cfg.StatusMap.Orders, cfg.StatusMap.Products)

	// Marketplace adapters
	registry := buildRegistry(cfg)
	for _, code := range cfg.Enabled() {
		log.Info("Marketplace connection enabled", zap.String("marketplace", string(code)))
	}

	// Crawler and orchestrator
	crawl, err := crawler.New(crawler.Config{
		MaxPages:    cfg.Crawler.MaxPages,
		MaxAttempts: cfg.Crawler.MaxAttempts,
		BaseBackoff: cfg.Crawler.BaseBackoff,
		MaxBackoff:  cfg.Crawler.MaxBackoff,
	}, log)
	if err != nil {
		log.Fatal("Invalid crawler configuration", zap.Error(err))
	}
	merger := appsync.NewRecordMerger(orderRepo, productRepo, questionRepo, returnRepo)
	orchestrator := appsync.NewOrchestrator(
		registry, normalizer, merger,
		runRepo, itemLogRepo, locker, outboxRepo, crawl,
		appsync.Config{
			LockTTL:       cfg.Sync.LockTTL,
			ForwardOrders: cfg.Sync.ForwardOrders,
			PaymentType:   cfg.ERP.PaymentType,
		},
		log,
	)

	// ERP delivery: disabled when credentials are absent
	var dispatcher *outboxinfra.Dispatcher
	erpClient, err := erp.NewClient(erp.Config{
		BaseURL:        cfg.ERP.BaseURL,
		APIKey:         cfg.ERP.APIKey,
		APISecret:      cfg.ERP.APISecret,
		TimeoutSeconds: cfg.ERP.TimeoutSeconds,
		PaymentType:    cfg.ERP.PaymentType,
	})
	dispatchService := dispatch.NewService(outboxRepo, orderRepo, erpClient, log)
	switch {
	case err != nil:
		log.Warn("ERP client not configured, order forwarding disabled", zap.Error(err))
		dispatchService = dispatch.NewService(outboxRepo, orderRepo, nil, log)
	case cfg.Outbox.Enabled:
		dispatcher = outboxinfra.NewDispatcher(dispatchService, outboxinfra.DispatcherConfig{
			BatchSize:    cfg.Outbox.BatchSize,
			PollInterval: cfg.Outbox.PollInterval,
		}, log)
		if err := dispatcher.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox dispatcher", zap.Error(err))
		}
	default:
		log.Info("Outbox dispatcher disabled by configuration")
	}

	// Setup gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORS())
	engine.Use(middleware.Secure())
	middleware.SetupValidator()

	// Health check
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Handlers
	syncHandler := handler.NewSyncHandler(orchestrator, registry, cfg)
	outboxHandler := handler.NewOutboxHandler(dispatchService)
	systemHandler := handler.NewSystemHandler()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(syncHandler).Register(outboxHandler).Register(systemHandler)
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
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if dispatcher != nil {
		if err := dispatcher.Stop(ctx); err != nil {
			log.Error("Outbox dispatcher forced to stop", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// buildRegistry wires an adapter per marketplace. Every adapter is always
// registered; whether a connection exists for it is decided per request via
// the account resolver.
func buildRegistry(cfg *config.Config) marketplace.Registry {
	trendyolCfg := mpadapter.DefaultTrendyolConfig()
	hepsiburadaCfg := mpadapter.DefaultHepsiburadaConfig()
	n11Cfg := mpadapter.DefaultN11Config()
	pazaramaCfg := mpadapter.DefaultPazaramaConfig()
	idefixCfg := mpadapter.DefaultIdefixConfig()

	// Endpoint overrides, mainly for staging environments
	if mc, ok := cfg.Marketplaces["trendyol"]; ok && mc.BaseURL != "" {
		trendyolCfg.APIBaseURL = mc.BaseURL
	}
	if mc, ok := cfg.Marketplaces["hepsiburada"]; ok && mc.BaseURL != "" {
		hepsiburadaCfg.OrdersBaseURL = mc.BaseURL
		hepsiburadaCfg.ListingsBaseURL = mc.BaseURL
	}
	if mc, ok := cfg.Marketplaces["n11"]; ok && mc.BaseURL != "" {
		n11Cfg.ServiceBaseURL = mc.BaseURL
	}
	if mc, ok := cfg.Marketplaces["pazarama"]; ok && mc.BaseURL != "" {
		pazaramaCfg.APIBaseURL = mc.BaseURL
		pazaramaCfg.TokenURL = mc.BaseURL + "/connect/token"
	}
	if mc, ok := cfg.Marketplaces["idefix"]; ok && mc.BaseURL != "" {
		idefixCfg.APIBaseURL = mc.BaseURL
	}

	return mpadapter.NewRegistry(
		mpadapter.NewTrendyolAdapter(trendyolCfg),
		mpadapter.NewHepsiburadaAdapter(hepsiburadaCfg),
		mpadapter.NewN11Adapter(n11Cfg),
		mpadapter.NewPazaramaAdapter(pazaramaCfg),
		mpadapter.NewIdefixAdapter(idefixCfg),
	)
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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
