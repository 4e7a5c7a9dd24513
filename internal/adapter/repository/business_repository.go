package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) repository.BusinessRepository {
	return &businessRepository{
		db: db,
	}
}

func (r *businessRepository) Create(ctx context.Context, business *entity.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	var business entity.Business
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) GetByOwnerUserID(ctx context.Context, userID uuid.UUID) (*entity.Business, error) {
	var business entity.Business
	err := r.db.WithContext(ctx).Where("owner_user_id = ?", userID).First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) Update(ctx context.Context, business *entity.Business) error {
	return r.db.WithContext(ctx).Save(business).Error
}

func (r *businessRepository) SetIdentityVerified(ctx context.Context, businessID uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.Business{}).
		Where("id = ?", businessID).
		Update("identity_verified", verified).Error
}

func (r *businessRepository) SetBankConnected(ctx context.Context, businessID uuid.UUID, connected bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.Business{}).
		Where("id = ?", businessID).
		Update("bank_connected", connected).Error
}

func (r *businessRepository) SetStripeAccountID(ctx context.Context, businessID uuid.UUID, stripeAccountID string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Business{}).
		Where("id = ?", businessID).
		Update("stripe_account_id", stripeAccountID).Error
}
