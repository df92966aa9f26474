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

	accountapp "github.com/sellerdesk/backend/internal/application/account"
	bulkapp "github.com/sellerdesk/backend/internal/application/bulk"
	importapp "github.com/sellerdesk/backend/internal/application/import"
	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/infrastructure/cache"
	"github.com/sellerdesk/backend/internal/infrastructure/config"
	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
	"github.com/sellerdesk/backend/internal/infrastructure/logger"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence"
	"github.com/sellerdesk/backend/internal/infrastructure/storage"
	"github.com/sellerdesk/backend/internal/interfaces/http/handler"
	"github.com/sellerdesk/backend/internal/interfaces/http/middleware"
	"github.com/sellerdesk/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

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

	log.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrated")

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	auditRepo := persistence.NewGormBulkAuditRepository(db.DB)
	historyRepo := persistence.NewGormImportHistoryRepository(db.DB)

	// Active-account cache backs the import account matcher. Falls back to
	// in-memory when Redis is disabled.
	accountCache, err := cache.NewAccountCacheFactory(cfg.Redis).CreateCache()
	if err != nil {
		log.Fatal("Failed to create account cache", zap.Error(err))
	}

	// Raw upload archival to S3-compatible storage is optional.
	var archiver storage.Archiver
	if cfg.Storage.Enabled {
		s3Archiver, err := storage.NewS3Archiver(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Archiver.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		archiver = s3Archiver
		log.Info("Upload archival enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		archiver = storage.NewNoopArchiver()
	}

	// Upload progress sessions live in memory for the configured retention.
	tracker := csvimport.NewTracker(cfg.Import.SessionRetention)
	defer tracker.Stop()

	importLimits := importapp.Limits{
		MaxRows:   cfg.Import.MaxRows,
		MaxErrors: cfg.Import.MaxErrors,
		BatchSize: cfg.Import.InsertBatchSize,
	}

	// Application services
	accountService := accountapp.NewAccountService(accountRepo, orderRepo, listingRepo, accountCache, log)
	orderImportService := importapp.NewOrderImportService(accountRepo, orderRepo, historyRepo, tracker, archiver, log, importLimits)
	listingImportService := importapp.NewListingImportService(accountRepo, listingRepo, historyRepo, tracker, archiver, log, importLimits)
	suggestService := importapp.NewSuggestService(accountRepo, accountCache, account.NewMatcher(), log)
	historyService := importapp.NewImportHistoryService(historyRepo)
	bulkStatusService := bulkapp.NewStatusService(orderRepo, auditRepo, log, cfg.Bulk.MaxSelection)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountService)
	importHandler := handler.NewImportHandler(orderImportService, listingImportService, suggestService, historyService, tracker, cfg.Import.MaxFileSize)
	bulkHandler := handler.NewBulkHandler(bulkStatusService)
	systemHandler := handler.NewSystemHandler(db.DB)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler.RegisterHealthRoutes(engine)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(accountHandler).
		Register(importHandler).
		Register(bulkHandler).
		Register(systemHandler).
		Setup()

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
