package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&entity.Business{},
		&entity.BusinessStaff{},
		&entity.Application{},
		&entity.Document{},
		&entity.SetupProgress{},
		&entity.IdentityVerificationSession{},
		&entity.BankConnection{},
		&entity.PaymentAccount{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM's tag syntax cannot express.
func createCustomIndexes(db *gorm.DB) error {
	// One live (non-superseded) document per business and type is the
	// common lookup for requirement checks.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_documents_live ON documents (business_id, type) WHERE superseded_by_id IS NULL AND status <> 'rejected'`).Error; err != nil {
		return err
	}

	// The admin queue reads submitted applications oldest first.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_applications_queue ON applications (submitted_at) WHERE status = 'submitted'`).Error; err != nil {
		return err
	}

	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return nil
}
