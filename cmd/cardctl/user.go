package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/sponsor-cards/internal/model"
	"github.com/iliyamo/sponsor-cards/internal/repository"
)

type userOpts struct {
	username  string
	password  string
	role      string
	sponsorID int64
}

// validate checks the role/sponsor binding: sponsors need a sponsor id,
// admins must not have one.
func (o userOpts) validate() error {
	if strings.TrimSpace(o.username) == "" || o.password == "" {
		return fmt.Errorf("--username and --password are required")
	}
	if !model.ValidRole(o.role) {
		return fmt.Errorf("invalid role %q (want %s or %s)", o.role, model.RoleAdmin, model.RoleSponsor)
	}
	if o.role == model.RoleSponsor && o.sponsorID <= 0 {
		return fmt.Errorf("--sponsor-id is required for sponsor users")
	}
	if o.role == model.RoleAdmin && o.sponsorID != 0 {
		return fmt.Errorf("admin users cannot be bound to a sponsor")
	}
	return nil
}

func createUser(ctx context.Context, db *sql.DB, o userOpts, cost int) (int64, error) {
	if err := o.validate(); err != nil {
		return 0, err
	}
	var sid *int64
	if o.role == model.RoleSponsor {
		if _, err := repository.NewSponsorRepo(db).Get(ctx, o.sponsorID); err != nil {
			return 0, err
		}
		sid = &o.sponsorID
	}
	return repository.NewUserRepo(db).Create(ctx, o.username, o.password, o.role, sid, cost)
}

func newUserCmd() *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Manage logins"}

	var o userOpts
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a login with a bcrypt password hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			db, cfg, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			id, err := createUser(ctx, db, o, cfg.BcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", id, o.username, o.role)
			return nil
		},
	}
	add.Flags().StringVar(&o.username, "username", "", "login name")
	add.Flags().StringVar(&o.password, "password", "", "plain password, stored hashed")
	add.Flags().StringVar(&o.role, "role", model.RoleSponsor, "admin or sponsor")
	add.Flags().Int64Var(&o.sponsorID, "sponsor-id", 0, "sponsor the login acts for (sponsor role only)")
	user.AddCommand(add)
	return user
}
