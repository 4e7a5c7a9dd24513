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

type setupProgressRepository struct {
	db *gorm.DB
}

func NewSetupProgressRepository(db *gorm.DB) repository.SetupProgressRepository {
	return &setupProgressRepository{
		db: db,
	}
}

func (r *setupProgressRepository) GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.SetupProgress, error) {
	var progress entity.SetupProgress
	err := r.db.WithContext(ctx).Where("business_id = ?", businessID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (r *setupProgressRepository) Upsert(ctx context.Context, progress *entity.SetupProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_step",
				"phase1_completed",
				"phase2_completed",
				"identity_completed_at",
				"bank_completed_at",
				"payment_completed_at",
				"updated_at",
			}),
		}).
		Create(progress).Error
}
