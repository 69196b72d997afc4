package repository

import (
	"context"
	"database/sql"
)

// ReportRepo runs the read-only aggregations behind the admin
// dashboard and the public availability page.  None of these queries
// lock rows or write anything.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// CardTotals counts cards per status.
type CardTotals struct {
	Inactive int `json:"non_attive"`
	Active   int `json:"attive"`
	Used     int `json:"utilizzate"`
	Total    int `json:"totale"`
}

// SponsorUsage is the number of cards redeemed by one sponsor.
type SponsorUsage struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	UsedCards int    `json:"cards_utilizzate"`
}

// SponsorAvailability is the public view of a sponsor's quota.
type SponsorAvailability struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	RemainingUses int    `json:"remaining_uses"`
}

// Totals returns card counts by status.  An empty table yields zeros.
func (r *ReportRepo) Totals(ctx context.Context) (CardTotals, error) {
	const q = `SELECT
                 COALESCE(SUM(CASE WHEN status = 'non_attiva' THEN 1 ELSE 0 END), 0),
                 COALESCE(SUM(CASE WHEN status = 'attiva' THEN 1 ELSE 0 END), 0),
                 COALESCE(SUM(CASE WHEN status = 'utilizzata' THEN 1 ELSE 0 END), 0),
                 COUNT(*)
               FROM cards`
	var t CardTotals
	err := r.db.QueryRowContext(ctx, q).Scan(&t.Inactive, &t.Active, &t.Used, &t.Total)
	return t, err
}

// PerSponsor returns, for every sponsor, how many cards it redeemed.
// Sponsors with no redemptions are included with a zero count.
func (r *ReportRepo) PerSponsor(ctx context.Context) ([]SponsorUsage, error) {
	const q = `SELECT s.id, s.name, s.type, COUNT(c.id)
               FROM sponsors s
               LEFT JOIN cards c ON c.sponsor_id = s.id AND c.status = 'utilizzata'
               GROUP BY s.id, s.name, s.type
               ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SponsorUsage{}
	for rows.Next() {
		var u SponsorUsage
		if err := rows.Scan(&u.ID, &u.Name, &u.Type, &u.UsedCards); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Availability lists every sponsor with its remaining uses, ordered by
// name.
func (r *ReportRepo) Availability(ctx context.Context) ([]SponsorAvailability, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, remaining_uses FROM sponsors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SponsorAvailability{}
	for rows.Next() {
		var a SponsorAvailability
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.RemainingUses); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
