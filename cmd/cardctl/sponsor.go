package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/sponsor-cards/internal/repository"
)

func newSponsorCmd() *cobra.Command {
	sponsor := &cobra.Command{Use: "sponsor", Short: "Manage sponsors"}

	var (
		name    string
		typ     string
		maxUses int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a sponsor with a full quota",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			if maxUses < 0 {
				return fmt.Errorf("--max-uses must not be negative")
			}
			db, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			sp, err := repository.NewSponsorRepo(db).Create(ctx, strings.TrimSpace(name), strings.TrimSpace(typ), maxUses)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created sponsor %d %q (%d uses)\n", sp.ID, sp.Name, sp.MaxUses)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().StringVar(&typ, "type", "", "free-form category, e.g. bar")
	add.Flags().IntVar(&maxUses, "max-uses", 0, "redemption quota")
	_ = add.MarkFlagRequired("max-uses")
	sponsor.AddCommand(add)
	return sponsor
}
