package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/middleware/auth"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

// BankHandler serves phase-2 bank account linking.
type BankHandler struct {
	bank   *usecase.BankLinkService
	logger *zap.Logger
}

func NewBankHandler(bank *usecase.BankLinkService, logger *zap.Logger) *BankHandler {
	return &BankHandler{
		bank:   bank,
		logger: logger,
	}
}

// CreateLinkToken mints the token the client-side linking widget needs.
func (h *BankHandler) CreateLinkToken(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	linkToken, err := h.bank.CreateLinkToken(c.Request().Context(), userID, businessID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"link_token": linkToken})
}

type bankExchangeRequest struct {
	PublicToken string `json:"public_token" validate:"required"`
	AccountID   string `json:"account_id" validate:"required"`
}

// Exchange trades the widget's public token for a durable, verified bank
// connection.
func (h *BankHandler) Exchange(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	businessID, err := parseUUIDParam(c, "business_id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req bankExchangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	result, err := h.bank.Exchange(c.Request().Context(), userID, businessID, req.PublicToken, req.AccountID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Bank account linked",
		zap.String("business_id", businessID.String()),
		zap.String("institution", result.Connection.InstitutionName))
	return c.JSON(http.StatusCreated, result)
}
