package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwell/onboarding-service/internal/domain/apperror"
)

// statusFor maps the service error taxonomy onto HTTP status codes.
func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindUnauthorized, apperror.KindTokenExpired, apperror.KindTokenInvalid, apperror.KindTokenRevoked:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseUUIDParam reads a path parameter as a UUID.
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Newf(apperror.KindValidation, "invalid %s", name)
	}
	return id, nil
}

// respondError writes the error envelope for err. Internal errors are logged
// with their cause but surfaced without it.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	kind := apperror.KindOf(err)
	status := statusFor(kind)

	message := "internal server error"
	var appErr *apperror.Error
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message = appErr.Message()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	return c.JSON(status, echo.Map{
		"error": message,
		"code":  string(kind),
	})
}
