package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// StaffRepository persists the user-to-business join table used for
// onboarding authorization. GetActiveByUserAndBusiness returns (nil, nil)
// when the user has no active association.
type StaffRepository interface {
	Create(ctx context.Context, staff *entity.BusinessStaff) error
	GetActiveByUserAndBusiness(ctx context.Context, userID, businessID uuid.UUID) (*entity.BusinessStaff, error)
	SetVerificationStatus(ctx context.Context, staffID uuid.UUID, status entity.StaffVerificationStatus, verifiedAt *time.Time) error
}
