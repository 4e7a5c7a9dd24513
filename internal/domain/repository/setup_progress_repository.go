package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// SetupProgressRepository persists the per-business progress row.
// GetByBusinessID returns (nil, nil) when no row exists.
type SetupProgressRepository interface {
	GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.SetupProgress, error)
	Upsert(ctx context.Context, progress *entity.SetupProgress) error
}
