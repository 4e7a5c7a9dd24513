package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/config"
	"github.com/bookwell/onboarding-service/internal/infrastructure/crypto"
	"github.com/bookwell/onboarding-service/internal/infrastructure/database"
	httpServer "github.com/bookwell/onboarding-service/internal/infrastructure/http"
	"github.com/bookwell/onboarding-service/internal/infrastructure/notify"
	"github.com/bookwell/onboarding-service/internal/infrastructure/provider/plaidbank"
	"github.com/bookwell/onboarding-service/internal/infrastructure/provider/stripeconnect"
	"github.com/bookwell/onboarding-service/internal/infrastructure/provider/stripeidentity"
	"github.com/bookwell/onboarding-service/internal/infrastructure/storage"
	"github.com/bookwell/onboarding-service/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// External adapters
	sealer, err := crypto.NewAESSealer(cfg.Service.Auth.BankTokenKey)
	if err != nil {
		zapLogger.Fatal("Failed to initialize token sealer", zap.Error(err))
	}

	store, err := storage.NewS3Store(ctx, &cfg.Service.Storage, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize document store", zap.Error(err))
	}

	notifier, err := notify.NewRedisDispatcher(
		cfg.Service.Redis.Addr,
		cfg.Service.Redis.Password,
		cfg.Service.Redis.DB,
		cfg.Service.Redis.NotificationChannel,
		zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to notification channel", zap.Error(err))
	}
	defer notifier.Close()

	providers := &httpServer.Providers{
		Identity: stripeidentity.NewIdentityProvider(zapLogger),
		Bank: plaidbank.NewBankProvider(
			cfg.Service.Plaid.ClientID,
			cfg.Service.Plaid.Secret,
			cfg.Service.Plaid.Environment,
			zapLogger,
		),
		Payments: stripeconnect.NewConnectProvider(zapLogger),
		Store:    store,
		Notifier: notifier,
		Sealer:   sealer,
	}

	// Initialize server
	httpSrv := httpServer.NewServer(cfg, zapLogger, repos, providers)

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
