package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/sponsor-cards/internal/model"
	"github.com/iliyamo/sponsor-cards/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user, returning its ID.
// sponsorID must be set for sponsor users and nil for admins.
func (r *UserRepo) Create(ctx context.Context, username, password, role string, sponsorID *int64, cost int) (int64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var sid any
	if sponsorID != nil {
		sid = *sponsorID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role, sponsor_id) VALUES (?,?,?,?)",
		username, hash, role, sid)
	if err != nil {
		msg := strings.ToLower(err.Error())
		// 1062 is MySQL's duplicate key; sqlite reports UNIQUE constraint failed
		if strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetByUsername fetches a user by username or returns ErrUserNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var (
		u   model.User
		sid sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,role,sponsor_id FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &sid)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if sid.Valid {
		id := sid.Int64
		u.SponsorID = &id
	}
	return u, nil
}
