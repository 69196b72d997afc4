package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/sponsor-cards/internal/logger"
	"github.com/iliyamo/sponsor-cards/internal/middleware"
	"github.com/iliyamo/sponsor-cards/internal/model"
	"github.com/iliyamo/sponsor-cards/internal/queue"
	"github.com/iliyamo/sponsor-cards/internal/service"
)

// EventPublisher delivers card events after commit.  *queue.Publisher
// implements it.
type EventPublisher interface {
	PublishCardEvent(ctx context.Context, ev queue.CardEvent) error
}

// CachePurger drops cached availability.  *middleware.ResponseCache
// implements it.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// CardHandler exposes activation and redemption.  Events and Cache are
// optional.
type CardHandler struct {
	Cards  *service.CardService
	Events EventPublisher
	Cache  CachePurger
}

func NewCardHandler(cards *service.CardService, events EventPublisher, cache CachePurger) *CardHandler {
	if cards == nil {
		panic("nil service passed to NewCardHandler")
	}
	return &CardHandler{Cards: cards, Events: events, Cache: cache}
}

type cardReq struct {
	CardID string `json:"card_id"`
}

type cardResp struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Activate handles POST /activate.  Activating a card that is already
// active or used is not an error; the message says what happened.
func (h *CardHandler) Activate(c echo.Context) error {
	var req cardReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Cards.Activate(ctx, req.CardID)
	if err != nil {
		return respondError(c, err)
	}
	if !res.Changed {
		msg := "card already active"
		if res.Status == model.CardStatusUsed {
			msg = "card already used"
		}
		return c.JSON(http.StatusOK, cardResp{Message: msg, Status: res.Status})
	}
	logger.FromContext(ctx).Info("card activated", zap.String("card_id", res.CardID))
	h.publish(ctx, queue.CardEvent{
		Type:       queue.EventCardActivated,
		CardID:     res.CardID,
		Status:     res.Status,
		OccurredAt: res.At.Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, cardResp{Message: "card activated", Status: res.Status})
}

// UseCard handles POST /use-card.  The sponsor is taken from the token,
// never from the body.
func (h *CardHandler) UseCard(c echo.Context) error {
	who, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req cardReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Cards.Redeem(ctx, req.CardID, who)
	if err != nil {
		return respondError(c, err)
	}
	log := logger.FromContext(ctx)
	log.Info("card redeemed", zap.String("card_id", res.CardID), zap.Int64p("sponsor_id", res.SponsorID))
	if h.Cache != nil {
		if err := h.Cache.Purge(ctx); err != nil {
			log.Warn("cache purge failed", zap.Error(err))
		}
	}
	h.publish(ctx, queue.CardEvent{
		Type:       queue.EventCardRedeemed,
		CardID:     res.CardID,
		Status:     res.Status,
		SponsorID:  res.SponsorID,
		ActorID:    who.ID,
		OccurredAt: res.At.Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, cardResp{Message: "card redeemed", Status: res.Status})
}

// publish sends ev in the background.  The transition is already
// committed, so a broker failure is only logged.
func (h *CardHandler) publish(ctx context.Context, ev queue.CardEvent) {
	if h.Events == nil {
		return
	}
	log := logger.FromContext(ctx)
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Events.PublishCardEvent(logger.WithContext(pctx, log), ev); err != nil {
			log.Warn("card event not published", zap.String("type", ev.Type), zap.String("card_id", ev.CardID), zap.Error(err))
		}
	}()
}
