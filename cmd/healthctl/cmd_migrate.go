package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthassist-server/internal/database"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(opts, func(r *database.MigrationRunner) error {
				if err := r.Up(cmd.Context()); err != nil {
					return err
				}
				return printVersion(cmd, r)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(opts, func(r *database.MigrationRunner) error {
				if err := r.Down(cmd.Context()); err != nil {
					return err
				}
				return printVersion(cmd, r)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(opts, func(r *database.MigrationRunner) error {
				return printVersion(cmd, r)
			})
		},
	})

	return cmd
}

func withRunner(opts *rootOptions, fn func(*database.MigrationRunner) error) error {
	manager, logger, err := opts.load()
	if err != nil {
		return err
	}
	if err := requirePostgres(manager.GetConfig()); err != nil {
		return err
	}

	runner, err := database.NewMigrationRunner(manager.GetDatabaseURL(), logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	return fn(runner)
}

func printVersion(cmd *cobra.Command, r *database.MigrationRunner) error {
	v, dirty, err := r.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Schema version: %d\n", v)
	if dirty {
		fmt.Fprintln(out, "WARNING: schema is dirty; a previous migration failed part-way")
	}
	return nil
}
