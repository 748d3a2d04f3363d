package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/healthassist-server/internal/app"
)

func newPingCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured database and session backend are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, logger, err := opts.load()
			if err != nil {
				return err
			}
			cfg := manager.GetConfig()
			// Connectivity only; never migrate from here.
			dbCfg := cfg.Database
			dbCfg.AutoMigrate = false

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			out := cmd.OutOrStdout()

			store, err := app.OpenStore(ctx, dbCfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("database %s: %w", dbCfg.Driver, err)
			}
			fmt.Fprintf(out, "database (%s): ok\n", dbCfg.Driver)

			sessions, closeSessions, err := app.OpenSessions(ctx, cfg, logger)
			if err != nil {
				return err
			}
			if closeSessions != nil {
				defer closeSessions()
			}
			if err := sessions.Ping(ctx); err != nil {
				return fmt.Errorf("sessions %s: %w", cfg.Session.Backend, err)
			}
			fmt.Fprintf(out, "sessions (%s): ok\n", cfg.Session.Backend)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "overall deadline")

	return cmd
}
