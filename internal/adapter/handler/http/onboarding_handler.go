package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/entity"
	"github.com/bookwell/onboarding-service/internal/middleware/auth"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

// OnboardingHandler serves the derived onboarding state and the phase-1
// business profile.
type OnboardingHandler struct {
	state    *usecase.OnboardingStateService
	business *usecase.BusinessService
	logger   *zap.Logger
}

func NewOnboardingHandler(
	state *usecase.OnboardingStateService,
	business *usecase.BusinessService,
	logger *zap.Logger,
) *OnboardingHandler {
	return &OnboardingHandler{
		state:    state,
		business: business,
		logger:   logger,
	}
}

// GetState returns the caller's current onboarding phase and step. The
// answer is derived from persisted facts on every call.
func (h *OnboardingHandler) GetState(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	state, err := h.state.Resolve(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, state)
}

type businessProfileRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	BusinessType string `json:"business_type" validate:"required"`
}

// SaveBusinessProfile creates the caller's business on first call and
// updates its identity fields afterwards.
func (h *OnboardingHandler) SaveBusinessProfile(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req businessProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	business, err := h.business.SaveProfile(c.Request().Context(), userID, usecase.BusinessProfileInput{
		Name:         req.Name,
		Email:        req.Email,
		BusinessType: entity.BusinessType(req.BusinessType),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Business profile saved",
		zap.String("user_id", userID.String()),
		zap.String("business_id", business.ID.String()))
	return c.JSON(http.StatusOK, business)
}
