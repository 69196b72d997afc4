// Package dbtest opens throwaway SQLite databases with the same tables
// as the MySQL schema so repositories and services can be tested
// against real SQL.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sponsor-cards/internal/database"
	"github.com/iliyamo/sponsor-cards/internal/model"
)

const schema = `
CREATE TABLE sponsors (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    name           TEXT    NOT NULL,
    type           TEXT    NOT NULL DEFAULT '',
    max_uses       INTEGER NOT NULL,
    remaining_uses INTEGER NOT NULL CHECK (remaining_uses >= 0 AND remaining_uses <= max_uses)
);
CREATE TABLE cards (
    id           TEXT     PRIMARY KEY,
    status       TEXT     NOT NULL DEFAULT 'non_attiva' CHECK (status IN ('non_attiva','attiva','utilizzata')),
    activated_at DATETIME NULL,
    used_at      DATETIME NULL,
    sponsor_id   INTEGER  NULL REFERENCES sponsors (id)
);
CREATE TABLE scans (
    id         INTEGER  PRIMARY KEY AUTOINCREMENT,
    card_id    TEXT     NOT NULL,
    sponsor_id INTEGER  NULL,
    timestamp  DATETIME NOT NULL,
    action     TEXT     NOT NULL CHECK (action IN ('attivazione','utilizzo'))
);
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT    NOT NULL UNIQUE,
    password_hash TEXT    NOT NULL,
    role          TEXT    NOT NULL CHECK (role IN ('admin','sponsor')),
    sponsor_id    INTEGER NULL REFERENCES sponsors (id)
);
`

var seq atomic.Int64

// Open returns a fresh in-memory database with the schema applied.  The
// pool is limited to one connection so every statement sees the same
// memory database; concurrent transactions therefore queue on the pool
// exactly as they would queue on row locks in MySQL.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:cards%d?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000", seq.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range database.Statements(schema) {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

// SeedCard inserts a card in the given status.  Timestamps required by
// the status invariants are filled in.
func SeedCard(t testing.TB, db *sql.DB, id, status string) {
	t.Helper()
	require.True(t, model.ValidCardStatus(status), "unknown card status %q", status)
	var activatedAt any
	if status != model.CardStatusInactive {
		activatedAt = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	}
	_, err := db.Exec(`INSERT INTO cards (id, status, activated_at) VALUES (?, ?, ?)`, id, status, activatedAt)
	require.NoError(t, err)
}

// SeedSponsor inserts a sponsor with explicit quota values and returns
// its id.
func SeedSponsor(t testing.TB, db *sql.DB, name string, maxUses, remaining int) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO sponsors (name, type, max_uses, remaining_uses) VALUES (?, 'bar', ?, ?)`,
		name, maxUses, remaining)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// CountScans returns how many audit rows exist for a card and action.
func CountScans(t testing.TB, db *sql.DB, cardID, action string) int {
	t.Helper()
	var n int
	err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM scans WHERE card_id = ? AND action = ?`, cardID, action).Scan(&n)
	require.NoError(t, err)
	return n
}

// TotalScans returns the number of audit rows.
func TotalScans(t testing.TB, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scans`).Scan(&n))
	return n
}
