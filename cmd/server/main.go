package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dangreenberg93/cin7-uploader/internal/application/erpdata"
	"github.com/dangreenberg93/cin7-uploader/internal/application/ingest"
	appmapping "github.com/dangreenberg93/cin7-uploader/internal/application/mapping"
	"github.com/dangreenberg93/cin7-uploader/internal/application/webhook"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/auth"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cache"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cin7"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/config"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/logger"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/persistence"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/handler"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/router"
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting cin7-uploader",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis hot cache. Startup continues without it; lookups fall back
	// to the database snapshot.
	var hotCache *cache.ERPDataCache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, continuing without hot cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		hotCache = cache.NewERPDataCache(redisClient, cfg.Redis.CacheTTL, cache.WithCacheLogger(log))
	}

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	uploadRepo := persistence.NewGormUploadRepository(db.DB)
	resultRepo := persistence.NewGormResultRepository(db.DB)
	snapshotRepo := persistence.NewGormERPCacheRepository(db.DB)
	apiLogRepo := persistence.NewGormAPILogRepository(db.DB)

	// ERP gateway factory, one client per credential
	erpOpts := cin7.Options{
		BaseURL:      cfg.ERP.BaseURL,
		Timeout:      cfg.ERP.Timeout,
		MinInterval:  cfg.ERP.MinInterval,
		MaxPages:     cfg.ERP.MaxPages,
		PageLimit:    cfg.ERP.PageLimit,
		MaxRetries:   cfg.ERP.MaxRetries,
		RetryBackoff: cfg.ERP.RetryBackoff,
	}
	gateways := func(cred *client.Credential) erpdata.ERPGateway {
		credentialID := cred.ID
		return cin7.NewClient(cred.AccountID, cred.ApplicationKey, erpOpts, log,
			cin7.WithLogFunc(func(call cin7.CallLog) {
				entry := persistence.APILogEntry{
					CredentialID: credentialID,
					Trigger:      "api",
					Endpoint:     call.Endpoint,
					Method:       call.Method,
					StatusCode:   call.StatusCode,
					DurationMs:   call.Duration.Milliseconds(),
					Error:        call.Err,
				}
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := apiLogRepo.Record(ctx, entry); err != nil {
					log.Warn("Failed to record API call", zap.Error(err))
				}
			}))
	}

	// Application services
	var hot erpdata.HotCache
	if hotCache != nil {
		hot = hotCache
	}
	erpService := erpdata.NewService(credentialRepo, gateways, snapshotRepo, hot, log)
	processor := ingest.NewProcessor(uploadRepo, resultRepo, log)
	uploadService := ingest.NewUploadService(uploadRepo, resultRepo, settingsRepo, templateRepo, erpService, processor, log)
	templateService := appmapping.NewTemplateService(templateRepo, log)
	webhookService := webhook.NewService(clientRepo, credentialRepo, uploadRepo, uploadService, cfg.Webhook, log)

	// HTTP interface
	tokens := auth.NewTokenService(cfg.Auth)
	handlers := router.Handlers{
		Uploads:   handler.NewUploadHandler(uploadService),
		Templates: handler.NewTemplateHandler(templateService),
		Results:   handler.NewResultHandler(uploadService),
		Webhooks:  handler.NewWebhookHandler(webhookService),
		ERP:       handler.NewERPHandler(erpService),
	}
	engine := router.NewRouter(cfg, log, tokens, handlers).Build()

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
