package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) repository.StaffRepository {
	return &staffRepository{
		db: db,
	}
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.BusinessStaff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepository) GetActiveByUserAndBusiness(ctx context.Context, userID, businessID uuid.UUID) (*entity.BusinessStaff, error) {
	var staff entity.BusinessStaff
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND business_id = ? AND active = ?", userID, businessID, true).
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) SetVerificationStatus(ctx context.Context, staffID uuid.UUID, status entity.StaffVerificationStatus, verifiedAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.BusinessStaff{}).
		Where("id = ?", staffID).
		Updates(map[string]interface{}{
			"verification_status": status,
			"verified_at":         verifiedAt,
		}).Error
}
