package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// BusinessRepository persists Business rows. Lookups return (nil, nil) when
// no row exists.
type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	GetByOwnerUserID(ctx context.Context, userID uuid.UUID) (*entity.Business, error)
	Update(ctx context.Context, business *entity.Business) error

	// SetIdentityVerified and SetBankConnected are the narrow best-effort
	// writes performed after a successful external side effect.
	SetIdentityVerified(ctx context.Context, businessID uuid.UUID, verified bool) error
	SetBankConnected(ctx context.Context, businessID uuid.UUID, connected bool) error
	SetStripeAccountID(ctx context.Context, businessID uuid.UUID, stripeAccountID string) error
}
