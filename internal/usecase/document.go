package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/apperror"
	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/domain/provider"
	"github.com/bookwell/onboarding-service/internal/domain/repository"
)

// MaxDocumentSizeBytes is the upload size ceiling.
const MaxDocumentSizeBytes = 10 << 20 // 10 MiB

// allowedContentTypes is the upload allow-list: images and PDFs only.
var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// DocumentReviewAction is an administrator's decision over one document.
type DocumentReviewAction string

const (
	DocumentActionVerify          DocumentReviewAction = "verify"
	DocumentActionReject          DocumentReviewAction = "reject"
	DocumentActionMarkUnderReview DocumentReviewAction = "mark_under_review"
)

// DocumentUploadInput describes one incoming upload.
type DocumentUploadInput struct {
	Type        entity.DocumentType
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// DocumentService manages the per-document lifecycle independent of the
// whole-application status.
type DocumentService struct {
	documents repository.DocumentRepository
	staff     repository.StaffRepository
	store     provider.DocumentStore
	logger    *zap.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	documents repository.DocumentRepository,
	staff repository.StaffRepository,
	store provider.DocumentStore,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		staff:     staff,
		store:     store,
		logger:    logger,
	}
}

// Upload validates the file, writes it to the document store and inserts the
// metadata row. The two writes are not transactional: a store failure means
// no row is created, and a row-insert failure after a successful store write
// triggers a compensating blob delete so no orphaned storage is left behind.
// A new upload supersedes earlier live documents of the same type.
func (s *DocumentService) Upload(ctx context.Context, userID, businessID uuid.UUID, input DocumentUploadInput) (*entity.Document, error) {
	if err := s.authorize(ctx, userID, businessID); err != nil {
		return nil, err
	}
	if !entity.ValidDocumentType(input.Type) {
		return nil, apperror.Newf(apperror.KindValidation, "unknown document type %q", input.Type)
	}
	ext, ok := allowedContentTypes[input.ContentType]
	if !ok {
		return nil, apperror.Newf(apperror.KindValidation, "content type %q not allowed; images and PDF only", input.ContentType)
	}
	if input.SizeBytes <= 0 {
		return nil, apperror.Validation("empty upload")
	}
	if input.SizeBytes > MaxDocumentSizeBytes {
		return nil, apperror.Newf(apperror.KindValidation, "file exceeds %d byte limit", MaxDocumentSizeBytes)
	}

	docID := uuid.New()
	key := path.Join("businesses", businessID.String(), "documents", string(input.Type), docID.String()+ext)

	url, err := s.store.Put(ctx, key, input.Body, input.ContentType)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindProvider, "failed to store document", err)
	}

	document := &entity.Document{
		ID:          docID,
		BusinessID:  businessID,
		Type:        input.Type,
		StorageKey:  key,
		URL:         url,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		Status:      entity.DocumentStatusPending,
	}
	if err := s.documents.Create(ctx, document); err != nil {
		// Compensate: the blob exists but its metadata does not. Delete
		// it rather than leave an orphan; a failed cleanup is logged for
		// reconciliation.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to clean up orphaned document blob",
				zap.String("storage_key", key),
				zap.Error(delErr))
		}
		return nil, apperror.Wrap(apperror.KindPersistence, "failed to record document", err)
	}

	if err := s.documents.MarkSuperseded(ctx, businessID, input.Type, docID); err != nil {
		s.logger.Warn("failed to supersede earlier documents",
			zap.String("business_id", businessID.String()),
			zap.String("document_type", string(input.Type)),
			zap.Error(err))
	}

	s.logger.Info("document uploaded",
		zap.String("business_id", businessID.String()),
		zap.String("document_id", docID.String()),
		zap.String("document_type", string(input.Type)))
	return document, nil
}

// Review applies an administrator decision to one document. Rejection
// requires a reason; verification stamps the reviewing administrator and
// time. Transitions outside the document state machine are conflicts.
func (s *DocumentService) Review(ctx context.Context, documentID, adminUserID uuid.UUID, action DocumentReviewAction, reason string) (*entity.Document, error) {
	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up document %s: %w", documentID, err)
	}
	if document == nil {
		return nil, apperror.NotFound("document not found")
	}

	var next entity.DocumentStatus
	switch action {
	case DocumentActionVerify:
		next = entity.DocumentStatusVerified
	case DocumentActionReject:
		if reason == "" {
			return nil, apperror.Validation("rejection reason is required")
		}
		next = entity.DocumentStatusRejected
	case DocumentActionMarkUnderReview:
		next = entity.DocumentStatusUnderReview
	default:
		return nil, apperror.Newf(apperror.KindValidation, "unknown review action %q", action)
	}

	if !document.CanTransitionTo(next) {
		return nil, apperror.Newf(apperror.KindConflict, "cannot move document from %q to %q", document.Status, next)
	}

	document.Status = next
	switch next {
	case entity.DocumentStatusVerified:
		now := time.Now().UTC()
		document.VerifiedBy = &adminUserID
		document.VerifiedAt = &now
		document.RejectionReason = ""
	case entity.DocumentStatusRejected:
		document.RejectionReason = reason
	case entity.DocumentStatusUnderReview:
		document.RejectionReason = ""
	}

	if err := s.documents.Update(ctx, document); err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}

	s.logger.Info("document reviewed",
		zap.String("document_id", documentID.String()),
		zap.String("action", string(action)),
		zap.String("reviewed_by", adminUserID.String()))
	return document, nil
}

// List returns every document uploaded for a business, superseded rows
// included so the history stays visible to review tooling.
func (s *DocumentService) List(ctx context.Context, userID, businessID uuid.UUID) ([]entity.Document, error) {
	if err := s.authorize(ctx, userID, businessID); err != nil {
		return nil, err
	}
	return s.documents.ListByBusinessID(ctx, businessID)
}

func (s *DocumentService) authorize(ctx context.Context, userID, businessID uuid.UUID) error {
	member, err := s.staff.GetActiveByUserAndBusiness(ctx, userID, businessID)
	if err != nil {
		return fmt.Errorf("failed to check staff association: %w", err)
	}
	if member == nil {
		return apperror.Forbidden("user is not active staff of this business")
	}
	return nil
}

// DownloadURL mints a short-lived presigned URL for reviewing a stored
// document.
func (s *DocumentService) DownloadURL(ctx context.Context, documentID uuid.UUID, expiry time.Duration) (string, error) {
	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("failed to look up document %s: %w", documentID, err)
	}
	if document == nil {
		return "", apperror.NotFound("document not found")
	}
	url, err := s.store.PresignGet(ctx, document.StorageKey, expiry)
	if err != nil {
		return "", apperror.Wrap(apperror.KindProvider, "failed to presign document", err)
	}
	return url, nil
}
