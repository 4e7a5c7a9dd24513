package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

type paymentAccountRepository struct {
	db *gorm.DB
}

func NewPaymentAccountRepository(db *gorm.DB) repository.PaymentAccountRepository {
	return &paymentAccountRepository{
		db: db,
	}
}

func (r *paymentAccountRepository) Create(ctx context.Context, account *entity.PaymentAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *paymentAccountRepository) GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.PaymentAccount, error) {
	var account entity.PaymentAccount
	err := r.db.WithContext(ctx).Where("business_id = ?", businessID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *paymentAccountRepository) GetByStripeAccountID(ctx context.Context, stripeAccountID string) (*entity.PaymentAccount, error) {
	var account entity.PaymentAccount
	err := r.db.WithContext(ctx).Where("stripe_account_id = ?", stripeAccountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *paymentAccountRepository) UpdateCapabilities(ctx context.Context, stripeAccountID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.PaymentAccount{}).
		Where("stripe_account_id = ?", stripeAccountID).
		Updates(map[string]interface{}{
			"charges_enabled":   chargesEnabled,
			"payouts_enabled":   payoutsEnabled,
			"details_submitted": detailsSubmitted,
		}).Error
}
