package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/apperror"
	"github.com/bookwell/onboarding-service/internal/domain/entity"
)

type documentFixture struct {
	svc       *DocumentService
	documents *MockDocumentRepository
	staff     *MockStaffRepository
	store     *MockDocumentStore
}

func newDocumentFixture() *documentFixture {
	f := &documentFixture{
		documents: new(MockDocumentRepository),
		staff:     new(MockStaffRepository),
		store:     new(MockDocumentStore),
	}
	f.svc = NewDocumentService(f.documents, f.staff, f.store, zap.NewNop())
	return f
}

func (f *documentFixture) allowStaff(userID, businessID uuid.UUID) {
	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).
		Return(activeStaff(userID, businessID), nil)
}

func validUpload() DocumentUploadInput {
	return DocumentUploadInput{
		Type:        entity.DocumentTypeProfessionalLicense,
		ContentType: "image/jpeg",
		SizeBytes:   1024,
		Body:        strings.NewReader("jpeg bytes"),
	}
}

func TestUpload_Success(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	input := validUpload()
	f.allowStaff(userID, businessID)

	f.store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "businesses/"+businessID.String()+"/documents/professional_license/") &&
			strings.HasSuffix(key, ".jpg")
	}), input.Body, "image/jpeg").Return("https://docs.test/object", nil)
	f.documents.On("Create", mock.Anything, mock.MatchedBy(func(d *entity.Document) bool {
		return d.BusinessID == businessID &&
			d.Type == entity.DocumentTypeProfessionalLicense &&
			d.Status == entity.DocumentStatusPending
	})).Return(nil)
	f.documents.On("MarkSuperseded", mock.Anything, businessID, entity.DocumentTypeProfessionalLicense, mock.Anything).Return(nil)

	doc, err := f.svc.Upload(context.Background(), userID, businessID, input)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.test/object", doc.URL)
	f.documents.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

// Uploading into a business the caller does not belong to is forbidden, and
// nothing reaches the store.
func TestUpload_RequiresStaff(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).Return(nil, nil)

	_, err := f.svc.Upload(context.Background(), userID, businessID, validUpload())
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.documents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpload_RejectsUnknownType(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	input := validUpload()
	input.Type = "tax_return"
	f.allowStaff(userID, businessID)

	_, err := f.svc.Upload(context.Background(), userID, businessID, input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.documents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpload_RejectsContentType(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	input := validUpload()
	input.ContentType = "application/zip"
	f.allowStaff(userID, businessID)

	_, err := f.svc.Upload(context.Background(), userID, businessID, input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_RejectsOversize(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	input := validUpload()
	input.SizeBytes = MaxDocumentSizeBytes + 1
	f.allowStaff(userID, businessID)

	_, err := f.svc.Upload(context.Background(), userID, businessID, input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// A store failure must not leave a metadata row behind.
func TestUpload_StoreFailureCreatesNoRow(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	input := validUpload()
	f.allowStaff(userID, businessID)

	f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("s3 unavailable"))

	_, err := f.svc.Upload(context.Background(), userID, businessID, input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
	f.documents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// A row-insert failure after a successful store write deletes the blob.
func TestUpload_RowFailureDeletesBlob(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	input := validUpload()
	f.allowStaff(userID, businessID)

	var storedKey string
	f.store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { storedKey = args.String(1) }).
		Return("https://docs.test/object", nil)
	f.documents.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	f.store.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
		return key == storedKey
	})).Return(nil)

	_, err := f.svc.Upload(context.Background(), userID, businessID, input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindPersistence, apperror.KindOf(err))
	f.store.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	f.documents.AssertNotCalled(t, "MarkSuperseded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_Verify(t *testing.T) {
	f := newDocumentFixture()
	docID := uuid.New()
	adminID := uuid.New()

	f.documents.On("GetByID", mock.Anything, docID).Return(&entity.Document{
		ID:     docID,
		Status: entity.DocumentStatusUnderReview,
	}, nil)
	f.documents.On("Update", mock.Anything, mock.MatchedBy(func(d *entity.Document) bool {
		return d.Status == entity.DocumentStatusVerified &&
			d.VerifiedBy != nil && *d.VerifiedBy == adminID &&
			d.VerifiedAt != nil
	})).Return(nil)

	doc, err := f.svc.Review(context.Background(), docID, adminID, DocumentActionVerify, "")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusVerified, doc.Status)
	f.documents.AssertExpectations(t)
}

func TestReview_RejectRequiresReason(t *testing.T) {
	f := newDocumentFixture()
	docID := uuid.New()

	f.documents.On("GetByID", mock.Anything, docID).Return(&entity.Document{
		ID:     docID,
		Status: entity.DocumentStatusUnderReview,
	}, nil)

	_, err := f.svc.Review(context.Background(), docID, uuid.New(), DocumentActionReject, "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	f.documents.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReview_VerifiedIsTerminal(t *testing.T) {
	f := newDocumentFixture()
	docID := uuid.New()

	f.documents.On("GetByID", mock.Anything, docID).Return(&entity.Document{
		ID:     docID,
		Status: entity.DocumentStatusVerified,
	}, nil)

	_, err := f.svc.Review(context.Background(), docID, uuid.New(), DocumentActionReject, "wrong person")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestReview_RejectedBackToUnderReview(t *testing.T) {
	f := newDocumentFixture()
	docID := uuid.New()

	f.documents.On("GetByID", mock.Anything, docID).Return(&entity.Document{
		ID:              docID,
		Status:          entity.DocumentStatusRejected,
		RejectionReason: "blurry license photo",
	}, nil)
	f.documents.On("Update", mock.Anything, mock.MatchedBy(func(d *entity.Document) bool {
		return d.Status == entity.DocumentStatusUnderReview && d.RejectionReason == ""
	})).Return(nil)

	doc, err := f.svc.Review(context.Background(), docID, uuid.New(), DocumentActionMarkUnderReview, "")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusUnderReview, doc.Status)
}

func TestReview_NotFound(t *testing.T) {
	f := newDocumentFixture()
	docID := uuid.New()

	f.documents.On("GetByID", mock.Anything, docID).Return(nil, nil)

	_, err := f.svc.Review(context.Background(), docID, uuid.New(), DocumentActionVerify, "")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestList_RequiresStaff(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	f.staff.On("GetActiveByUserAndBusiness", mock.Anything, userID, businessID).Return(nil, nil)

	_, err := f.svc.List(context.Background(), userID, businessID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	f.documents.AssertNotCalled(t, "ListByBusinessID", mock.Anything, mock.Anything)
}

func TestList_ReturnsHistory(t *testing.T) {
	f := newDocumentFixture()
	userID := uuid.New()
	businessID := uuid.New()
	f.allowStaff(userID, businessID)

	f.documents.On("ListByBusinessID", mock.Anything, businessID).Return([]entity.Document{
		{ID: uuid.New(), BusinessID: businessID, Type: entity.DocumentTypeProfessionalLicense},
		{ID: uuid.New(), BusinessID: businessID, Type: entity.DocumentTypeProfessionalHeadshot},
	}, nil)

	docs, err := f.svc.List(context.Background(), userID, businessID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDownloadURL(t *testing.T) {
	f := newDocumentFixture()
	docID := uuid.New()

	f.documents.On("GetByID", mock.Anything, docID).Return(&entity.Document{
		ID:         docID,
		StorageKey: "businesses/b/documents/professional_license/d.jpg",
	}, nil)
	f.store.On("PresignGet", mock.Anything, "businesses/b/documents/professional_license/d.jpg", 15*time.Minute).
		Return("https://docs.test/signed", nil)

	url, err := f.svc.DownloadURL(context.Background(), docID, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.test/signed", url)
}
