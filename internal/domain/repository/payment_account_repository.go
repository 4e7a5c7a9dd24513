package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// PaymentAccountRepository persists processor sub-account rows, one per
// business. Lookups return (nil, nil) when no row exists.
type PaymentAccountRepository interface {
	Create(ctx context.Context, account *entity.PaymentAccount) error
	GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.PaymentAccount, error)
	GetByStripeAccountID(ctx context.Context, stripeAccountID string) (*entity.PaymentAccount, error)
	UpdateCapabilities(ctx context.Context, stripeAccountID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error
}
