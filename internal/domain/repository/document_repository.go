package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

// DocumentRepository persists uploaded documents. The table is append-only;
// replacement is expressed through supersession, never row deletion.
type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	ListByBusinessID(ctx context.Context, businessID uuid.UUID) ([]entity.Document, error)
	Update(ctx context.Context, document *entity.Document) error

	// MarkSuperseded points every live document of the given type at its
	// replacement.
	MarkSuperseded(ctx context.Context, businessID uuid.UUID, docType entity.DocumentType, supersededBy uuid.UUID) error
}
