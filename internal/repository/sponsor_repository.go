package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/sponsor-cards/internal/model"
)

// SponsorRepo is the quota ledger.  Create is the only place
// remaining_uses is initialised and DecrementTx, called from the card
// service inside a redemption transaction, is the only place it changes.
type SponsorRepo struct {
	db *sql.DB
}

// NewSponsorRepo returns a new SponsorRepo bound to the given database.
func NewSponsorRepo(db *sql.DB) *SponsorRepo { return &SponsorRepo{db: db} }

const sponsorColumns = `id, name, type, max_uses, remaining_uses`

func scanSponsor(row rowScanner) (model.Sponsor, error) {
	var s model.Sponsor
	if err := row.Scan(&s.ID, &s.Name, &s.Type, &s.MaxUses, &s.RemainingUses); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Sponsor{}, ErrSponsorNotFound
		}
		return model.Sponsor{}, err
	}
	return s, nil
}

// Create inserts a sponsor with remaining_uses equal to maxUses and
// returns the stored record.
func (r *SponsorRepo) Create(ctx context.Context, name, typ string, maxUses int) (model.Sponsor, error) {
	if maxUses < 0 {
		return model.Sponsor{}, fmt.Errorf("max_uses must not be negative: %d", maxUses)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sponsors (name, type, max_uses, remaining_uses) VALUES (?, ?, ?, ?)`,
		name, typ, maxUses, maxUses)
	if err != nil {
		return model.Sponsor{}, fmt.Errorf("insert sponsor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Sponsor{}, err
	}
	return model.Sponsor{ID: id, Name: name, Type: typ, MaxUses: maxUses, RemainingUses: maxUses}, nil
}

// Get returns a sponsor by id or ErrSponsorNotFound.
func (r *SponsorRepo) Get(ctx context.Context, id int64) (model.Sponsor, error) {
	return scanSponsor(r.db.QueryRowContext(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE id = ?`, id))
}

// GetTx returns a sponsor by id using the provided transaction.
func (r *SponsorRepo) GetTx(ctx context.Context, tx *sql.Tx, id int64) (model.Sponsor, error) {
	return scanSponsor(tx.QueryRowContext(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE id = ?`, id))
}

// Remaining returns the sponsor's remaining uses.
func (r *SponsorRepo) Remaining(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT remaining_uses FROM sponsors WHERE id = ?`, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSponsorNotFound
	}
	return n, err
}

// DecrementTx consumes one unit of quota.  The WHERE clause refuses to
// go below zero; false means the quota was already exhausted when the
// statement ran.
func (r *SponsorRepo) DecrementTx(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE sponsors SET remaining_uses = remaining_uses - 1 WHERE id = ? AND remaining_uses > 0`, id)
	if err != nil {
		return false, fmt.Errorf("decrement quota: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
