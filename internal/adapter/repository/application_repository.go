package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) repository.ApplicationRepository {
	return &applicationRepository{
		db: db,
	}
}

func (r *applicationRepository) Create(ctx context.Context, application *entity.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.Application, error) {
	var application entity.Application
	err := r.db.WithContext(ctx).Where("business_id = ?", businessID).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) Update(ctx context.Context, application *entity.Application) error {
	return r.db.WithContext(ctx).Save(application).Error
}

func (r *applicationRepository) ListByStatus(ctx context.Context, status entity.ApplicationStatus, limit, offset int) ([]entity.Application, error) {
	var applications []entity.Application
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("submitted_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}
