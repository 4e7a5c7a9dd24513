package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/middleware/auth"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

// ApplicationHandler serves phase-1 application submission.
type ApplicationHandler struct {
	applications *usecase.ApplicationService
	logger       *zap.Logger
}

func NewApplicationHandler(applications *usecase.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		logger:       logger,
	}
}

// Submit files the business's application for review.
func (h *ApplicationHandler) Submit(c echo.Context) error {
	userID, businessID, err := h.callerAndBusiness(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	application, err := h.applications.Submit(c.Request().Context(), userID, businessID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Application submitted",
		zap.String("business_id", businessID.String()),
		zap.String("application_id", application.ID.String()))
	return c.JSON(http.StatusCreated, application)
}

// Resubmit returns a rejected application to the review queue.
func (h *ApplicationHandler) Resubmit(c echo.Context) error {
	userID, businessID, err := h.callerAndBusiness(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	application, err := h.applications.Resubmit(c.Request().Context(), userID, businessID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Application resubmitted",
		zap.String("business_id", businessID.String()),
		zap.String("application_id", application.ID.String()))
	return c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) callerAndBusiness(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, businessID, nil
}
