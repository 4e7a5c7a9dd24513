package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/middleware/auth"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

const defaultDownloadURLExpiry = 15 * time.Minute

// AdminHandler serves the administrator review queue: pending applications,
// approval decisions and per-document review.
type AdminHandler struct {
	approvals *usecase.ApprovalService
	documents *usecase.DocumentService
	logger    *zap.Logger
}

func NewAdminHandler(
	approvals *usecase.ApprovalService,
	documents *usecase.DocumentService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		approvals: approvals,
		documents: documents,
		logger:    logger,
	}
}

// ListPendingApplications returns submitted applications oldest first.
func (h *AdminHandler) ListPendingApplications(c echo.Context) error {
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	applications, err := h.approvals.ListPending(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"applications": applications,
		"count":        len(applications),
	})
}

type approveRequest struct {
	Notes string `json:"notes"`
}

// Approve approves a submitted application and returns the minted phase-2
// token.
func (h *AdminHandler) Approve(c echo.Context) error {
	adminID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req approveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	result, err := h.approvals.Approve(c.Request().Context(), businessID, adminID, req.Notes)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Application approved",
		zap.String("business_id", businessID.String()),
		zap.String("admin_id", adminID.String()))
	return c.JSON(http.StatusOK, result)
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Reject rejects a submitted application with a mandatory reason.
func (h *AdminHandler) Reject(c echo.Context) error {
	adminID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	application, err := h.approvals.Reject(c.Request().Context(), businessID, adminID, req.Reason)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Application rejected",
		zap.String("business_id", businessID.String()),
		zap.String("admin_id", adminID.String()))
	return c.JSON(http.StatusOK, application)
}

type documentReviewRequest struct {
	Action string `json:"action" validate:"required"`
	Reason string `json:"reason"`
}

// ReviewDocument applies an administrator decision to one document.
func (h *AdminHandler) ReviewDocument(c echo.Context) error {
	adminID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	documentID, err := parseUUIDParam(c, "document_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req documentReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	document, err := h.documents.Review(c.Request().Context(), documentID, adminID,
		usecase.DocumentReviewAction(req.Action), req.Reason)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, document)
}

// DocumentDownloadURL presigns a short-lived download link for a stored
// document.
func (h *AdminHandler) DocumentDownloadURL(c echo.Context) error {
	documentID, err := parseUUIDParam(c, "document_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	expiry := defaultDownloadURLExpiry
	if minutes := parseIntQuery(c, "expiry_minutes", 0); minutes > 0 {
		expiry = time.Duration(minutes) * time.Minute
	}

	url, err := h.documents.DownloadURL(c.Request().Context(), documentID, expiry)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"url":        url,
		"expires_in": int(expiry.Seconds()),
	})
}

type verifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// VerifyApprovalToken validates a phase-2 approval token and re-checks that
// the business is still approved. Downstream services call this before
// honoring the token.
func (h *AdminHandler) VerifyApprovalToken(c echo.Context) error {
	var req verifyTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	claims, err := h.approvals.VerifyToken(c.Request().Context(), req.Token)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid":          true,
		"business_id":    claims.BusinessID,
		"user_id":        claims.UserID,
		"application_id": claims.ApplicationID,
		"expires_at":     claims.ExpiresAt,
	})
}

func parseIntQuery(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
