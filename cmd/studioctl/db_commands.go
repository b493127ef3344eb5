// cmd/studioctl/db_commands.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omstudio/studio-ops/internal/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.open()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the cap table pool and division sequences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.open()
			if err != nil {
				return err
			}
			if err := database.SeedInitialData(db, ctx.cfg.CapTable); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed data present")
			return nil
		},
	}
}
