package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/middleware/auth"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

// IdentityHandler serves phase-2 identity proofing sessions.
type IdentityHandler struct {
	identity *usecase.IdentityService
	logger   *zap.Logger
}

func NewIdentityHandler(identity *usecase.IdentityService, logger *zap.Logger) *IdentityHandler {
	return &IdentityHandler{
		identity: identity,
		logger:   logger,
	}
}

// CreateSession opens a proofing session for the caller, or short-circuits
// when the caller is already verified for this business.
func (h *IdentityHandler) CreateSession(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.identity.CreateSession(c.Request().Context(), userID, businessID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	status := http.StatusCreated
	if result.AlreadyVerified {
		status = http.StatusOK
	}
	return c.JSON(status, result)
}

// CheckStatus polls the remote session status and records verification facts
// when the session has verified.
func (h *IdentityHandler) CheckStatus(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.identity.CheckStatus(c.Request().Context(), userID, businessID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if result.Persistence.Failed {
		h.logger.Warn("Identity verification recorded remotely but local writes failed",
			zap.String("business_id", businessID.String()),
			zap.String("reason", result.Persistence.Reason))
	}
	return c.JSON(http.StatusOK, result)
}
