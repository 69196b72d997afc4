package middleware

// identity.go holds the helpers that move the verified identity through
// the Echo context.  JWTAuth stores it; handlers and the rate limiter
// read it.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sponsor-cards/internal/utils"
)

const identityKey = "identity"

func setIdentity(c echo.Context, id utils.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by JWTAuth.  ok is false on
// routes that are not behind JWTAuth.
func IdentityFrom(c echo.Context) (utils.Identity, bool) {
	id, ok := c.Get(identityKey).(utils.Identity)
	return id, ok
}

// userID returns the authenticated user id as a string, or "anon" on
// public routes.
func userID(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return strconv.FormatInt(id.ID, 10)
	}
	return "anon"
}
