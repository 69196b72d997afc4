package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sponsor-cards/internal/logger"
	"github.com/iliyamo/sponsor-cards/internal/repository"
	"github.com/iliyamo/sponsor-cards/internal/utils"
)

// AuthHandler issues identity tokens.  There is no session store: the
// token is the session.
type AuthHandler struct {
	Users    *repository.UserRepo
	Secret   string
	TokenTTL time.Duration

	// dummyHash is compared against on unknown usernames so both 401
	// paths pay for one bcrypt comparison at the configured cost.
	dummyHash string
	verify    func(hash, plain string) bool
}

func NewAuthHandler(users *repository.UserRepo, secret string, ttl time.Duration, bcryptCost int) *AuthHandler {
	if users == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	dummy, err := utils.HashPassword("unknown-user-placeholder", bcryptCost)
	if err != nil {
		panic("hash placeholder password: " + err.Error())
	}
	return &AuthHandler{
		Users:     users,
		Secret:    secret,
		TokenTTL:  ttl,
		dummyHash: dummy,
		verify:    utils.VerifyPassword,
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login checks the credentials and returns a signed token.  Unknown
// users and wrong passwords get the same 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.verify(h.dummyHash, req.Password)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return respondError(c, err)
	}
	if !h.verify(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.SignIdentity(utils.Identity{ID: u.ID, Role: u.Role, SponsorID: u.SponsorID}, h.Secret, h.TokenTTL)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromContext(ctx).Info("login", zap.Int64("user_id", u.ID), zap.String("role", u.Role))
	return c.JSON(http.StatusOK, loginResp{Token: token, Role: u.Role})
}
