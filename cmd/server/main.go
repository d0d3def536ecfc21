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

	catalogapp "github.com/opencatalog/backend/internal/application/catalog"
	syncapp "github.com/opencatalog/backend/internal/application/sync"
	syncdomain "github.com/opencatalog/backend/internal/domain/sync"
	"github.com/opencatalog/backend/internal/infrastructure/auth"
	"github.com/opencatalog/backend/internal/infrastructure/cache"
	"github.com/opencatalog/backend/internal/infrastructure/config"
	"github.com/opencatalog/backend/internal/infrastructure/event"
	"github.com/opencatalog/backend/internal/infrastructure/logger"
	"github.com/opencatalog/backend/internal/infrastructure/persistence"
	"github.com/opencatalog/backend/internal/infrastructure/sources"
	"github.com/opencatalog/backend/internal/interfaces/http/handler"
	"github.com/opencatalog/backend/internal/interfaces/http/middleware"
	"github.com/opencatalog/backend/internal/interfaces/http/router"
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

	log.Info("Starting OpenCatalog Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	auditLog := persistence.NewGormAuditLog(db.DB)
	runRepo := persistence.NewGormRunRepository(db.DB)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(catalogapp.NewProductLifecycleHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Run lock: Redis in distributed deployments, process memory otherwise
	var runLock syncdomain.RunLock
	if cfg.Sync.UseRedisLock {
		redisLock, err := cache.NewRedisRunLock(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		runLock = redisLock
		log.Info("Using Redis run lock",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		runLock = cache.NewInMemoryRunLock()
	}

	// Register source adapters. Per-request timeouts come from the
	// credentials supplied with each sync call.
	registry := sources.NewRegistry(
		sources.NewOdooAdapter(),
		sources.NewShopifyAdapter(),
		sources.NewWooCommerceAdapter(),
		sources.NewTrendyolAdapter(),
	)
	log.Info("Source adapters registered", zap.Int("count", len(registry.ListAdapters())))

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, auditLog, eventBus, log)
	reconciler := syncapp.NewReconciler(productRepo).
		WithObservers(auditLog, eventBus, log)
	syncService := syncapp.NewService(
		registry,
		reconciler,
		runRepo,
		runLock,
		log,
	).WithPageSize(cfg.Sync.PageSize)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	syncHandler := handler.NewSyncHandler(syncService, registry)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Authentication and tenant scoping for the API surface
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	tenantConfig := middleware.DefaultTenantConfig()
	engine.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Catalog domain
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.GET("/products/:id", productHandler.Get)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	catalogRoutes.PATCH("/products/:id/status", productHandler.ChangeStatus)
	catalogRoutes.PUT("/products/:id/variants", productHandler.ReplaceVariants)
	catalogRoutes.GET("/products/:id/audit", productHandler.AuditTrail)

	// Sync domain
	syncRoutes := router.NewDomainGroup("sync", "/sync")
	syncRoutes.GET("/sources", syncHandler.ListSources)
	syncRoutes.GET("/runs", syncHandler.ListRuns)
	syncRoutes.GET("/runs/:id", syncHandler.GetRun)
	syncRoutes.POST("/:source", syncHandler.Trigger)
	syncRoutes.POST("/:source/test", syncHandler.TestConnection)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(catalogRoutes).
		Register(syncRoutes).
		Register(systemRoutes)
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
