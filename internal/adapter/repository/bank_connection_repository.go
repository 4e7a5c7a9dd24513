package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

type bankConnectionRepository struct {
	db *gorm.DB
}

func NewBankConnectionRepository(db *gorm.DB) repository.BankConnectionRepository {
	return &bankConnectionRepository{
		db: db,
	}
}

// Upsert replaces the connection row keyed by business_id so a relink swaps
// the stored credentials atomically.
func (r *bankConnectionRepository) Upsert(ctx context.Context, connection *entity.BankConnection) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"linked_by",
				"item_id",
				"institution_id",
				"institution_name",
				"account_id",
				"account_name",
				"account_mask",
				"routing_number",
				"encrypted_access_token",
				"status",
				"updated_at",
			}),
		}).
		Create(connection).Error
}

func (r *bankConnectionRepository) GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.BankConnection, error) {
	var connection entity.BankConnection
	err := r.db.WithContext(ctx).Where("business_id = ?", businessID).First(&connection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &connection, nil
}
