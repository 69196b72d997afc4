package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sponsor-cards/internal/logger"
	"github.com/iliyamo/sponsor-cards/internal/repository"
	"github.com/iliyamo/sponsor-cards/internal/service"
)

// AdminHandler serves the admin-only routes: the dashboard and sponsor
// creation.
type AdminHandler struct {
	Reports  *service.ReportService
	Sponsors *repository.SponsorRepo
	Cache    CachePurger
}

func NewAdminHandler(reports *service.ReportService, sponsors *repository.SponsorRepo, cache CachePurger) *AdminHandler {
	if reports == nil || sponsors == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Reports: reports, Sponsors: sponsors, Cache: cache}
}

// Dashboard handles GET /dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	d, err := h.Reports.Dashboard(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

type createSponsorReq struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	MaxUses *int   `json:"max_uses"`
}

// CreateSponsor handles POST /sponsors.  remaining_uses starts at
// max_uses.
func (h *AdminHandler) CreateSponsor(c echo.Context) error {
	var req createSponsorReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	if req.MaxUses == nil || *req.MaxUses < 0 {
		return badRequest(c, "max_uses must be a non-negative integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sp, err := h.Sponsors.Create(ctx, req.Name, req.Type, *req.MaxUses)
	if err != nil {
		return respondError(c, err)
	}
	log := logger.FromContext(ctx)
	log.Info("sponsor created", zap.Int64("sponsor_id", sp.ID), zap.Int("max_uses", sp.MaxUses))
	if h.Cache != nil {
		if err := h.Cache.Purge(ctx); err != nil {
			log.Warn("cache purge failed", zap.Error(err))
		}
	}
	return c.JSON(http.StatusOK, sp)
}
