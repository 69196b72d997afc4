package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/sponsor-cards/internal/model"
)

// ScanRepo is the append-only audit trail.  It issues INSERT and
// SELECT statements only.
type ScanRepo struct {
	db *sql.DB
}

// NewScanRepo returns a new ScanRepo bound to the given database.
func NewScanRepo(db *sql.DB) *ScanRepo { return &ScanRepo{db: db} }

// ScanView is an audit entry joined with the sponsor name for display.
type ScanView struct {
	ID          int64     `json:"id"`
	CardID      string    `json:"card_id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	SponsorName *string   `json:"sponsor_name"`
}

// AppendTx inserts the entry inside the caller's transaction and sets
// its generated id.
func (r *ScanRepo) AppendTx(ctx context.Context, tx *sql.Tx, s *model.Scan) error {
	var sponsorID any
	if s.SponsorID != nil {
		sponsorID = *s.SponsorID
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO scans (card_id, sponsor_id, timestamp, action) VALUES (?, ?, ?, ?)`,
		s.CardID, sponsorID, s.Timestamp.UTC(), s.Action)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// ListRecent returns at most limit entries, newest first.
func (r *ScanRepo) ListRecent(ctx context.Context, limit int) ([]ScanView, error) {
	if limit <= 0 {
		return []ScanView{}, nil
	}
	const q = `SELECT s.id, s.card_id, s.timestamp, s.action, sp.name
               FROM scans s
               LEFT JOIN sponsors sp ON sp.id = s.sponsor_id
               ORDER BY s.timestamp DESC, s.id DESC
               LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ScanView{}
	for rows.Next() {
		var (
			v    ScanView
			name sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.CardID, &v.Timestamp, &v.Action, &name); err != nil {
			return nil, err
		}
		v.Timestamp = v.Timestamp.UTC()
		if name.Valid {
			n := name.String
			v.SponsorName = &n
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
