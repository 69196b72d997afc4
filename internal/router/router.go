// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/sponsor-cards/internal/config"
	"github.com/iliyamo/sponsor-cards/internal/handler"
	"github.com/iliyamo/sponsor-cards/internal/middleware"
	"github.com/iliyamo/sponsor-cards/internal/model"
)

// APIPrefix is the path prefix every route is also served under.
const APIPrefix = "/api"

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Auth   *handler.AuthHandler
	Cards  *handler.CardHandler
	Admin  *handler.AdminHandler
	Public *handler.PublicHandler
}

// Options carries the route-level middleware settings.  A nil Redis
// client disables rate limiting and caching.
type Options struct {
	JWTSecret string
	RateLimit config.RateLimitConfig
	Cache     *middleware.ResponseCache
	Redis     *redis.Client
	DB        *sql.DB
}

// routes is satisfied by both *echo.Echo and *echo.Group.
type routes interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// New builds the Echo instance with request logging and every route
// registered at the bare path and under APIPrefix.
func New(h Handlers, opt Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger())

	e.GET("/healthz", handler.Health(opt.DB))
	Register(e, h, opt)
	Register(e.Group(APIPrefix), h, opt)
	return e
}

// Register mounts the card API on r.
func Register(r routes, h Handlers, opt Options) {
	limit := middleware.NewTokenBucket(opt.RateLimit, opt.Redis)
	sponsorOnly := middleware.JWTAuth(opt.JWTSecret, model.RoleSponsor)
	adminOnly := middleware.JWTAuth(opt.JWTSecret, model.RoleAdmin)

	r.POST("/login", h.Auth.Login, limit)
	r.POST("/activate", h.Cards.Activate, limit)
	r.POST("/use-card", h.Cards.UseCard, sponsorOnly)
	r.GET("/dashboard", h.Admin.Dashboard, adminOnly)
	r.POST("/sponsors", h.Admin.CreateSponsor, adminOnly)
	r.GET("/public-availability", h.Public.Availability, opt.Cache.Middleware())
}
