package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/provider"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

// WebhookHandler ingests Stripe events. Capability changes on connected
// accounts are applied immediately; everything else is acknowledged and
// left to the polling endpoints.
type WebhookHandler struct {
	accounts      *usecase.PaymentAccountService
	webhookSecret string
	logger        *zap.Logger
}

func NewWebhookHandler(accounts *usecase.PaymentAccountService, webhookSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		accounts:      accounts,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(
		body,
		sig,
		h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		h.logger.Error("Webhook signature verification failed",
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Webhook signature verification failed",
		})
	}

	h.logger.Info("Stripe webhook received",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	switch event.Type {
	case "account.updated":
		if err := h.handleAccountUpdated(c, event); err != nil {
			return err
		}
	case "identity.verification_session.verified",
		"identity.verification_session.requires_input":
		// Recorded on the next status poll. Acknowledge only.
		h.logger.Debug("Identity session event acknowledged",
			zap.String("event_id", event.ID))
	default:
		h.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

func (h *WebhookHandler) handleAccountUpdated(c echo.Context, event stripe.Event) error {
	var account stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &account); err != nil {
		h.logger.Error("Failed to parse account.updated payload",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Malformed event payload"})
	}

	caps := &provider.AccountCapabilities{
		ChargesEnabled:   account.ChargesEnabled,
		PayoutsEnabled:   account.PayoutsEnabled,
		DetailsSubmitted: account.DetailsSubmitted,
	}
	if err := h.accounts.ApplyCapabilities(c.Request().Context(), account.ID, caps); err != nil {
		// Unknown accounts are expected: the platform account and accounts
		// owned by other services also emit this event.
		h.logger.Warn("Capability update not applied",
			zap.String("stripe_account_id", account.ID),
			zap.Error(err))
	}
	return nil
}
