package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// ApplicationRepository persists phase-1 submission records, one per
// business. GetByBusinessID returns (nil, nil) when no row exists.
type ApplicationRepository interface {
	Create(ctx context.Context, application *entity.Application) error
	GetByBusinessID(ctx context.Context, businessID uuid.UUID) (*entity.Application, error)
	Update(ctx context.Context, application *entity.Application) error

	// ListByStatus supports the admin review queue.
	ListByStatus(ctx context.Context, status entity.ApplicationStatus, limit, offset int) ([]entity.Application, error)
}
