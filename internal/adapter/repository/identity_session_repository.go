package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

type identitySessionRepository struct {
	db *gorm.DB
}

func NewIdentitySessionRepository(db *gorm.DB) repository.IdentitySessionRepository {
	return &identitySessionRepository{
		db: db,
	}
}

func (r *identitySessionRepository) Create(ctx context.Context, session *entity.IdentityVerificationSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *identitySessionRepository) GetByProviderSessionID(ctx context.Context, providerSessionID string) (*entity.IdentityVerificationSession, error) {
	var session entity.IdentityVerificationSession
	err := r.db.WithContext(ctx).Where("provider_session_id = ?", providerSessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *identitySessionRepository) GetLatestByUserAndBusiness(ctx context.Context, userID, businessID uuid.UUID) (*entity.IdentityVerificationSession, error) {
	var session entity.IdentityVerificationSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *identitySessionRepository) Update(ctx context.Context, session *entity.IdentityVerificationSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
