package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthassist-server/internal/setup"
)

type mcpOptions struct {
	clientConfig string
	binary       string
}

func (o *mcpOptions) configPath() (string, error) {
	if o.clientConfig != "" {
		return o.clientConfig, nil
	}
	return setup.ClientConfigPath()
}

func newMCPCmd() *cobra.Command {
	opts := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Register the symptom MCP server with a desktop client",
	}
	cmd.PersistentFlags().StringVar(&opts.clientConfig, "client-config", "", "client config file (default: platform location)")

	install := &cobra.Command{
		Use:   "install",
		Short: "Add or update the MCP server entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := opts.configPath()
			if err != nil {
				return err
			}
			entry, err := setup.Install(path, opts.binary, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s -> %s in %s\n", setup.ServerName, entry.Command, path)
			fmt.Fprintln(cmd.OutOrStdout(), "Restart the client to load the server.")
			return nil
		},
	}
	install.Flags().StringVar(&opts.binary, "binary", "", "path to the mcp-server binary (default: search PATH)")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the MCP server registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := opts.configPath()
			if err != nil {
				return err
			}
			st, err := setup.GetStatus(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config:     %s\n", st.ConfigPath)
			fmt.Fprintf(out, "Registered: %t\n", st.Registered)
			if st.Command != "" {
				fmt.Fprintf(out, "Command:    %s\n", st.Command)
			}
			for _, issue := range st.Issues {
				fmt.Fprintf(out, "  ! %s\n", issue)
			}
			return nil
		},
	}

	uninstall := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the MCP server entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := opts.configPath()
			if err != nil {
				return err
			}
			removed, err := setup.Uninstall(path)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", setup.ServerName, path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s was not registered in %s\n", setup.ServerName, path)
			}
			return nil
		},
	}

	cmd.AddCommand(install, status, uninstall)
	return cmd
}
