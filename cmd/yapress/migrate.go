package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yapress/yapress/internal/repository"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireDatabase(); err != nil {
				return err
			}
			if err := repository.MigrateUp(a.cfg.DatabaseURL); err != nil {
				return errors.New(sanitizeError(err, a.cfg.DatabaseURL))
			}
			a.logger.Info("migrations_applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireDatabase(); err != nil {
				return err
			}
			if err := repository.MigrateDown(a.cfg.DatabaseURL, steps); err != nil {
				return errors.New(sanitizeError(err, a.cfg.DatabaseURL))
			}
			a.logger.Info("migrations_rolled_back", "steps", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back (0 rolls back all)")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireDatabase(); err != nil {
				return err
			}
			v, dirty, err := repository.MigrationVersion(a.cfg.DatabaseURL)
			if err != nil {
				return errors.New(sanitizeError(err, a.cfg.DatabaseURL))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d", v)
			if dirty {
				fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}
