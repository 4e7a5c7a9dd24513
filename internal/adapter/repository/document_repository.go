package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) repository.DocumentRepository {
	return &documentRepository{
		db: db,
	}
}

func (r *documentRepository) Create(ctx context.Context, document *entity.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var document entity.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) ListByBusinessID(ctx context.Context, businessID uuid.UUID) ([]entity.Document, error) {
	var documents []entity.Document
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *documentRepository) Update(ctx context.Context, document *entity.Document) error {
	return r.db.WithContext(ctx).Save(document).Error
}

func (r *documentRepository) MarkSuperseded(ctx context.Context, businessID uuid.UUID, docType entity.DocumentType, supersededBy uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Document{}).
		Where("business_id = ? AND type = ? AND id <> ? AND superseded_by_id IS NULL", businessID, docType, supersededBy).
		Update("superseded_by_id", supersededBy).Error
}
