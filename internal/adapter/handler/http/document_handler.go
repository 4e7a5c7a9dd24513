package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/middleware/auth"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

// DocumentHandler serves verification document uploads and listings.
type DocumentHandler struct {
	documents *usecase.DocumentService
	logger    *zap.Logger
}

func NewDocumentHandler(documents *usecase.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		logger:    logger,
	}
}

// Upload accepts one multipart document. The form carries the file under
// "file" and the document type under "type".
func (h *DocumentHandler) Upload(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing file"})
	}
	documentType := c.FormValue("type")
	if documentType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing document type"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unreadable file"})
	}
	defer file.Close()

	document, err := h.documents.Upload(c.Request().Context(), userID, businessID, usecase.DocumentUploadInput{
		Type:        entity.DocumentType(documentType),
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Document uploaded",
		zap.String("business_id", businessID.String()),
		zap.String("document_id", document.ID.String()),
		zap.String("type", documentType))
	return c.JSON(http.StatusCreated, document)
}

// List returns the business's documents, newest first.
func (h *DocumentHandler) List(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	documents, err := h.documents.List(c.Request().Context(), userID, businessID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"documents": documents,
		"count":     len(documents),
	})
}
