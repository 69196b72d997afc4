// Package service holds the card lifecycle engine and the read-only
// reporting on top of the repositories.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/sponsor-cards/internal/model"
	"github.com/iliyamo/sponsor-cards/internal/repository"
	"github.com/iliyamo/sponsor-cards/internal/utils"
)

// ErrValidation marks malformed input such as an empty card id.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when the identity may not perform the
// transition (only sponsor identities redeem).
var ErrUnauthorized = errors.New("unauthorized")

// Result describes the outcome of a transition request.  Changed is
// false when Activate found the card already past non_attiva and did
// nothing.
type Result struct {
	CardID    string
	Status    string
	Changed   bool
	SponsorID *int64
	At        time.Time
}

// CardService is the only writer of card status fields, of
// sponsors.remaining_uses (through the sponsor repo) and of scans rows.
// Every transition runs in one transaction: the gating reads, the
// conditional updates and the audit insert commit together or not at
// all.
type CardService struct {
	db       *sql.DB
	cards    *repository.CardRepo
	sponsors *repository.SponsorRepo
	scans    *repository.ScanRepo
	now      func() time.Time
}

// NewCardService wires the engine to its repositories.  All
// repositories must share db.
func NewCardService(db *sql.DB, cards *repository.CardRepo, sponsors *repository.SponsorRepo, scans *repository.ScanRepo) *CardService {
	if db == nil || cards == nil || sponsors == nil || scans == nil {
		panic("nil dependency passed to NewCardService")
	}
	return &CardService{
		db:       db,
		cards:    cards,
		sponsors: sponsors,
		scans:    scans,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source; tests use it to pin timestamps.
func (s *CardService) WithClock(now func() time.Time) *CardService {
	s.now = now
	return s
}

// inTx runs fn inside a transaction and commits only when fn returns
// nil.  Any error, including a lost race detected by a conditional
// update, rolls everything back.
func (s *CardService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Activate moves a card from non_attiva to attiva and writes an
// attivazione audit entry.  Cards already attiva or utilizzata are
// reported as they are, with no writes.
func (s *CardService) Activate(ctx context.Context, cardID string) (Result, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return Result{}, fmt.Errorf("%w: card_id is required", ErrValidation)
	}
	var (
		res  Result
		lost bool
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		card, err := s.cards.GetTx(ctx, tx, cardID)
		if err != nil {
			return err
		}
		res = Result{CardID: card.ID, Status: card.Status}
		if card.Status != model.CardStatusInactive {
			return nil
		}

		now := s.now()
		ok, err := s.cards.ActivateTx(ctx, tx, cardID, now)
		if err != nil {
			return err
		}
		if !ok {
			// another request activated it first; nothing was written
			lost = true
			return nil
		}
		scan := model.Scan{CardID: cardID, Timestamp: now, Action: model.ScanActionActivation}
		if err := s.scans.AppendTx(ctx, tx, &scan); err != nil {
			return err
		}
		res = Result{CardID: cardID, Status: model.CardStatusActive, Changed: true, At: now}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if lost {
		// Read after the transaction ends: under REPEATABLE READ a read
		// inside it would still return the snapshot taken by the gate read.
		card, err := s.cards.Get(ctx, cardID)
		if err != nil {
			return Result{}, err
		}
		res.Status = card.Status
	}
	return res, nil
}

// Redeem finalises an active card on behalf of the sponsor bound to the
// identity, consuming one unit of that sponsor's quota and writing a
// utilizzo audit entry.  The sponsor always comes from the identity,
// never from the request.
func (s *CardService) Redeem(ctx context.Context, cardID string, who utils.Identity) (Result, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return Result{}, fmt.Errorf("%w: card_id is required", ErrValidation)
	}
	if who.Role != model.RoleSponsor {
		return Result{}, ErrUnauthorized
	}
	var res Result
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		card, err := s.cards.GetTx(ctx, tx, cardID)
		if err != nil {
			return err
		}
		switch card.Status {
		case model.CardStatusInactive:
			return repository.ErrCardNotActive
		case model.CardStatusUsed:
			return repository.ErrAlreadyRedeemed
		}

		if who.SponsorID == nil {
			return repository.ErrSponsorNotFound
		}
		sponsor, err := s.sponsors.GetTx(ctx, tx, *who.SponsorID)
		if err != nil {
			return err
		}
		if sponsor.RemainingUses <= 0 {
			return repository.ErrQuotaExhausted
		}

		now := s.now()
		ok, err := s.cards.MarkUsedTx(ctx, tx, cardID, sponsor.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrAlreadyRedeemed
		}
		ok, err = s.sponsors.DecrementTx(ctx, tx, sponsor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrQuotaExhausted
		}
		sid := sponsor.ID
		scan := model.Scan{CardID: cardID, SponsorID: &sid, Timestamp: now, Action: model.ScanActionRedemption}
		if err := s.scans.AppendTx(ctx, tx, &scan); err != nil {
			return err
		}
		res = Result{CardID: cardID, Status: model.CardStatusUsed, Changed: true, SponsorID: &sid, At: now}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
