package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	handlers "github.com/bookwell/onboarding-service/internal/adapter/handler/http"
	"github.com/bookwell/onboarding-service/internal/auth"
	"github.com/bookwell/onboarding-service/internal/config"
	"github.com/bookwell/onboarding-service/internal/domain/provider"
	"github.com/bookwell/onboarding-service/internal/infrastructure/crypto"
	"github.com/bookwell/onboarding-service/internal/infrastructure/database"
	"github.com/bookwell/onboarding-service/internal/logger"
	authmw "github.com/bookwell/onboarding-service/internal/middleware/auth"
	"github.com/bookwell/onboarding-service/internal/usecase"
)

// Providers bundles the external-facing adapters the server wires into the
// use cases. main constructs them so the server stays testable.
type Providers struct {
	Identity provider.IdentityProvider
	Bank     provider.BankProvider
	Payments provider.PaymentAccountProvider
	Store    provider.DocumentStore
	Notifier provider.NotificationDispatcher
	Sealer   crypto.Sealer
}

type Server struct {
	config    *config.Config
	logger    *zap.Logger
	echo      *echo.Echo
	repos     *database.Repositories
	providers *Providers
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories, providers *Providers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Initialize Stripe
	stripe.Key = cfg.Service.Stripe.SecretKey

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:    cfg,
		logger:    log,
		echo:      e,
		repos:     repos,
		providers: providers,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "onboarding",
		})
	})

	// Use cases
	tokens := auth.NewApprovalTokenIssuer(
		s.config.Service.Auth.ApprovalTokenSecret,
		s.config.Service.Auth.ApprovalTokenTTL,
	)
	stateService := usecase.NewOnboardingStateService(
		s.repos.Business, s.repos.Application, s.repos.Document, s.repos.PaymentAccount, s.logger)
	businessService := usecase.NewBusinessService(
		s.repos.Business, s.repos.Staff, s.repos.SetupProgress, s.logger)
	applicationService := usecase.NewApplicationService(
		s.repos.Application, s.repos.Business, s.repos.Document, s.repos.Staff, s.repos.SetupProgress, s.logger)
	approvalService := usecase.NewApprovalService(
		s.repos.Business, s.repos.Application, s.repos.SetupProgress,
		tokens, s.providers.Notifier, s.config.Service.ClientURL, s.logger)
	documentService := usecase.NewDocumentService(
		s.repos.Document, s.repos.Staff, s.providers.Store, s.logger)
	identityService := usecase.NewIdentityService(
		s.repos.IdentitySession, s.repos.Business, s.repos.Staff, s.providers.Identity, s.logger)
	bankService := usecase.NewBankLinkService(
		s.repos.BankConnection, s.repos.Business, s.repos.Staff, s.repos.SetupProgress,
		s.providers.Bank, s.providers.Sealer, s.logger)
	onboardingReturnURL := s.config.Service.ClientURL + "/onboarding/payment/complete"
	onboardingRefreshURL := s.config.Service.ClientURL + "/onboarding/payment/refresh"
	paymentService := usecase.NewPaymentAccountService(
		s.repos.PaymentAccount, s.repos.Business, s.repos.Staff, s.repos.SetupProgress,
		s.providers.Payments, onboardingReturnURL, onboardingRefreshURL, s.logger)

	// Handlers
	onboardingHandler := handlers.NewOnboardingHandler(stateService, businessService, s.logger)
	applicationHandler := handlers.NewApplicationHandler(applicationService, s.logger)
	documentHandler := handlers.NewDocumentHandler(documentService, s.logger)
	identityHandler := handlers.NewIdentityHandler(identityService, s.logger)
	bankHandler := handlers.NewBankHandler(bankService, s.logger)
	paymentHandler := handlers.NewPaymentAccountHandler(paymentService, s.logger)
	adminHandler := handlers.NewAdminHandler(approvalService, documentService, s.logger)
	webhookHandler := handlers.NewWebhookHandler(paymentService, s.config.Service.Stripe.WebhookSecret, s.logger)

	// JWT middleware configuration
	jwtConfig := authmw.JWTConfig{
		Secret: s.config.Service.Auth.JWTSecret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhook",
			"/api/v1/onboarding/approval/verify",
		},
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	onboarding := v1.Group("/onboarding", authmw.JWTMiddleware(jwtConfig))

	// Downstream services validate approval tokens here; the token itself is
	// the credential.
	onboarding.POST("/approval/verify", adminHandler.VerifyApprovalToken)

	onboarding.GET("/state", onboardingHandler.GetState)
	onboarding.PUT("/business", onboardingHandler.SaveBusinessProfile)

	businesses := onboarding.Group("/businesses/:business_id")
	businesses.POST("/documents", documentHandler.Upload)
	businesses.GET("/documents", documentHandler.List)
	businesses.POST("/application", applicationHandler.Submit)
	businesses.POST("/application/resubmit", applicationHandler.Resubmit)
	businesses.POST("/identity/session", identityHandler.CreateSession)
	businesses.GET("/identity/status", identityHandler.CheckStatus)
	businesses.POST("/bank/link-token", bankHandler.CreateLinkToken)
	businesses.POST("/bank/exchange", bankHandler.Exchange)
	businesses.POST("/payment/account", paymentHandler.CreateOrResume)
	businesses.POST("/payment/sync", paymentHandler.SyncStatus)

	// Admin review queue
	admin := v1.Group("/admin", authmw.JWTMiddleware(jwtConfig), authmw.RequireAdmin(s.logger))
	admin.GET("/applications", adminHandler.ListPendingApplications)
	admin.POST("/businesses/:business_id/approve", adminHandler.Approve)
	admin.POST("/businesses/:business_id/reject", adminHandler.Reject)
	admin.POST("/documents/:document_id/review", adminHandler.ReviewDocument)
	admin.GET("/documents/:document_id/download-url", adminHandler.DocumentDownloadURL)

	// Webhook route (outside API versioning)
	s.echo.POST("/webhook/stripe", webhookHandler.HandleStripeWebhook)
}
