package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// BankConnectionRepository persists the single active bank connection per
// business. GetByBusinessID returns (nil, nil) when no row exists.
type BankConnectionRepository interface {
	// Upsert inserts or replaces the connection keyed by business id, so a
	// relink replaces the previous link atomically at the row level.
	Upsert(ctx context.Context, connection *entity.BankConnection) error
	GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.BankConnection, error)
}
