package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sponsor-cards/internal/repository"
	"github.com/iliyamo/sponsor-cards/internal/service"
)

// PublicHandler serves unauthenticated read endpoints.
type PublicHandler struct {
	Reports *service.ReportService
}

func NewPublicHandler(reports *service.ReportService) *PublicHandler {
	return &PublicHandler{Reports: reports}
}

type availabilityResp struct {
	Sponsors []repository.SponsorAvailability `json:"sponsors"`
}

// Availability handles GET /public-availability.
func (h *PublicHandler) Availability(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Reports.PublicAvailability(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, availabilityResp{Sponsors: list})
}
