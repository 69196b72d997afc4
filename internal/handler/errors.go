package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sponsor-cards/internal/logger"
	"github.com/iliyamo/sponsor-cards/internal/repository"
	"github.com/iliyamo/sponsor-cards/internal/service"
)

// statusFor maps domain errors to HTTP status codes.  Anything it does
// not recognise is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrCardNotFound), errors.Is(err, repository.ErrSponsorNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrCardNotActive),
		errors.Is(err, repository.ErrAlreadyRedeemed),
		errors.Is(err, repository.ErrQuotaExhausted):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": msg}.  Internal failures are logged and
// answered with a generic message so store details never leak.
func respondError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("request failed",
			zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(code, echo.Map{"error": "internal error"})
	}
	if code == http.StatusUnauthorized {
		return c.JSON(code, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(code, echo.Map{"error": err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
