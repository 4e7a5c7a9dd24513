package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// IdentitySessionRepository persists identity-proofing attempts as
// append-only history. Lookups return (nil, nil) when no row exists.
type IdentitySessionRepository interface {
	Create(ctx context.Context, session *entity.IdentityVerificationSession) error
	GetByProviderSessionID(ctx context.Context, providerSessionID string) (*entity.IdentityVerificationSession, error)
	GetLatestByUserAndBusiness(ctx context.Context, userID, businessID uuid.UUID) (*entity.IdentityVerificationSession, error)
	Update(ctx context.Context, session *entity.IdentityVerificationSession) error
}
