package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/sponsor-cards/internal/model"
)

// CardRepo reads cards and performs the two guarded status transitions.
// Only the card service calls the *Tx write methods; they must run
// inside the transaction that also appends the audit entry.
type CardRepo struct {
	db *sql.DB
}

// NewCardRepo returns a new CardRepo bound to the given database.
func NewCardRepo(db *sql.DB) *CardRepo { return &CardRepo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

const cardColumns = `id, status, activated_at, used_at, sponsor_id`

func scanCard(row rowScanner) (model.Card, error) {
	var (
		c           model.Card
		activatedAt sql.NullTime
		usedAt      sql.NullTime
		sponsorID   sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Status, &activatedAt, &usedAt, &sponsorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Card{}, ErrCardNotFound
		}
		return model.Card{}, err
	}
	if activatedAt.Valid {
		t := activatedAt.Time.UTC()
		c.ActivatedAt = &t
	}
	if usedAt.Valid {
		t := usedAt.Time.UTC()
		c.UsedAt = &t
	}
	if sponsorID.Valid {
		id := sponsorID.Int64
		c.SponsorID = &id
	}
	return c, nil
}

// Get returns a card outside of any transaction.  It returns
// ErrCardNotFound when the id is unknown.
func (r *CardRepo) Get(ctx context.Context, id string) (model.Card, error) {
	return scanCard(r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
}

// GetTx returns a card using the provided transaction.
func (r *CardRepo) GetTx(ctx context.Context, tx *sql.Tx, id string) (model.Card, error) {
	return scanCard(tx.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
}

// ActivateTx moves a card from non_attiva to attiva and stamps
// activated_at.  The update is conditional on the current status so a
// concurrent activation cannot apply twice; the boolean reports whether
// this call performed the transition.
func (r *CardRepo) ActivateTx(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE cards SET status = ?, activated_at = ? WHERE id = ? AND status = ?`,
		model.CardStatusActive, at.UTC(), id, model.CardStatusInactive)
	if err != nil {
		return false, fmt.Errorf("activate card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkUsedTx moves a card from attiva to utilizzata, stamping used_at
// and the redeeming sponsor.  It only matches cards that are still
// attiva, so of two concurrent redemptions at most one succeeds.
func (r *CardRepo) MarkUsedTx(ctx context.Context, tx *sql.Tx, id string, sponsorID int64, at time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE cards SET status = ?, used_at = ?, sponsor_id = ? WHERE id = ? AND status = ?`,
		model.CardStatusUsed, at.UTC(), sponsorID, id, model.CardStatusActive)
	if err != nil {
		return false, fmt.Errorf("mark card used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
