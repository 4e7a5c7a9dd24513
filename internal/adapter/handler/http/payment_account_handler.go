package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/middleware/auth"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

// PaymentAccountHandler serves phase-2 payment account provisioning.
type PaymentAccountHandler struct {
	accounts *usecase.PaymentAccountService
	logger   *zap.Logger
}

func NewPaymentAccountHandler(accounts *usecase.PaymentAccountService, logger *zap.Logger) *PaymentAccountHandler {
	return &PaymentAccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// CreateOrResume provisions the processor sub-account on first call and
// mints a fresh hosted-onboarding link on every call.
func (h *PaymentAccountHandler) CreateOrResume(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.accounts.CreateOrResume(c.Request().Context(), userID, businessID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if result.Persistence.Failed {
		h.logger.Warn("Payment account provisioned remotely but local writes failed",
			zap.String("business_id", businessID.String()),
			zap.String("account_id", result.AccountID),
			zap.String("reason", result.Persistence.Reason))
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, result)
}

// SyncStatus pulls the processor-reported capability flags and refreshes the
// stored account.
func (h *PaymentAccountHandler) SyncStatus(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	account, err := h.accounts.SyncStatus(c.Request().Context(), userID, businessID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, account)
}
