package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sponsor-cards/internal/logger"
	"github.com/iliyamo/sponsor-cards/internal/utils"
)

// ErrUnauthorized is returned by Authorize for a missing or malformed
// header, an invalid token, or a role outside the allowed set.
var ErrUnauthorized = errors.New("unauthorized")

const bearerPrefix = "Bearer "

// Authorize extracts the bearer token from r, verifies it with secret
// and, when roles is non-empty, requires the token's role to be one of
// them.  It has no side effects.
func Authorize(r *http.Request, secret string, roles ...string) (utils.Identity, error) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, bearerPrefix) {
		return utils.Identity{}, ErrUnauthorized
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
	id, err := utils.VerifyIdentity(raw, secret)
	if err != nil {
		return utils.Identity{}, ErrUnauthorized
	}
	if len(roles) > 0 && !slices.Contains(roles, id.Role) {
		return utils.Identity{}, ErrUnauthorized
	}
	return id, nil
}

// JWTAuth returns an Echo middleware that runs Authorize and stores the
// verified identity in the context (read it with IdentityFrom).  Every
// failure is answered with 401 and the same body so callers cannot tell
// a bad signature from a role mismatch.
func JWTAuth(secret string, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := Authorize(c.Request(), secret, roles...)
			if err != nil {
				logger.FromContext(c.Request().Context()).Debug("authorization failed",
					zap.String("path", c.Path()),
					zap.String("client_ip", c.RealIP()),
				)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}
