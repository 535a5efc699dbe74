package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/ecommerce/product-service/internal/application/catalog"
	"github.com/ecommerce/product-service/internal/infrastructure/cache"
	"github.com/ecommerce/product-service/internal/infrastructure/config"
	"github.com/ecommerce/product-service/internal/infrastructure/logger"
	"github.com/ecommerce/product-service/internal/infrastructure/persistence"
	"github.com/ecommerce/product-service/internal/infrastructure/telemetry"
	"github.com/ecommerce/product-service/internal/interfaces/http/handler"
	"github.com/ecommerce/product-service/internal/interfaces/http/middleware"
	"github.com/ecommerce/product-service/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting product service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry providers come first so the database plugins see them
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBSystem:        telemetry.DBSystemFor(db.Driver),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("product-service/db"), sqlDB, cfg.Database.SlowThreshold, log)
	if err != nil {
		log.Fatal("Failed to create database metrics", zap.Error(err))
	}
	if err := dbMetrics.Register(db.DB); err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	defer func() {
		if err := dbMetrics.Stop(); err != nil {
			log.Error("Error stopping database metrics", zap.Error(err))
		}
	}()

	// Category name cache, Redis when configured
	nameCache, err := cache.NewCategoryNameCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to create category name cache", zap.Error(err))
	}
	defer func() {
		if err := nameCache.Close(); err != nil {
			log.Error("Error closing category name cache", zap.Error(err))
		}
	}()

	// Repositories and services
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	serviceOpts := []catalogapp.Option{
		catalogapp.WithCategoryNameCache(nameCache),
		catalogapp.WithLogger(log),
	}
	categoryService := catalogapp.NewCategoryService(categoryRepo, serviceOpts...)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, serviceOpts...)

	// Validation runs on the gin binding engine so binding tags and catalog
	// rules share one validator
	v, err := middleware.SetupValidator()
	if err != nil {
		log.Fatal("Failed to set up validator", zap.Error(err))
	}
	if err := catalogapp.RegisterValidations(v); err != nil {
		log.Fatal("Failed to register catalog validations", zap.Error(err))
	}
	validators := catalogapp.NewValidatorRegistry(v)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	translator, err := middleware.NewErrorTranslator(log, meterProvider.Meter("product-service/http"))
	if err != nil {
		log.Fatal("Failed to create error translator", zap.Error(err))
	}
	httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("product-service/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	// Middleware stack, outermost first:
	// 1. Tracing - request span, so later logs carry the trace id
	// 2. RequestID - generate/propagate request ID
	// 3. Logger - access log with a request-scoped logger
	// 4. SpanErrorMarker - span status from the final response code
	// 5. ErrorTranslator - render recorded errors as the error envelope
	// 6. Recovery - turn panics into recorded errors
	// 7. Metrics, security headers, CORS, body limit
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(translator.Middleware())
	engine.Use(logger.Recovery(log))
	engine.Use(httpMetrics)
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{middleware.RequestIDHeader, "Location"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside the API prefix)
	checks := map[string]handler.HealthCheck{
		"database": sqlDB.PingContext,
	}
	if pinger, ok := nameCache.(interface{ Ping(context.Context) error }); ok {
		checks["cache"] = pinger.Ping
	}
	engine.GET("/health", handler.NewSystemHandler(checks).Health)

	groups := []*router.DomainGroup{
		handler.NewCategoryHandler(categoryService).Routes(validators),
		handler.NewProductHandler(productService).Routes(validators),
	}
	r := router.NewRouter(engine)
	for _, g := range groups {
		r.Register(g)
		for _, route := range g.Routes() {
			log.Debug("Route registered",
				zap.String("method", route.Method),
				zap.String("path", r.Prefix()+route.Path),
			)
		}
	}
	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
