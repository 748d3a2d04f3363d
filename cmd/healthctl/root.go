package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/healthassist-server/internal/config"
	"github.com/healthassist-server/internal/domain"
	"github.com/healthassist-server/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "healthctl",
		Short: "Operate a HealthAssist+ deployment",
		Long: "healthctl runs database migrations, checks backend connectivity,\n" +
			"queries the symptom knowledge base and registers the MCP tool server.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: ./config.yaml, ./config/, /etc/healthassist/)")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newPingCmd(opts))
	root.AddCommand(newCheckCmd())
	root.AddCommand(newConditionsCmd())
	root.AddCommand(newMCPCmd())

	return root
}

// load reads and validates the server configuration.
func (o *rootOptions) load() (*config.Manager, *logrus.Logger, error) {
	var (
		manager *config.Manager
		err     error
	)
	if o.configFile != "" {
		manager, err = config.NewManagerWithFile(o.configFile)
	} else {
		manager, err = config.NewManager()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := manager.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logCfg := manager.GetConfig().Logging
	logCfg.Output = "stderr"
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, err
	}
	return manager, logger, nil
}

func requirePostgres(cfg *domain.Config) error {
	if cfg.Database.Driver != domain.DriverPostgres {
		return fmt.Errorf("migrations apply to the postgres driver only, configured driver is %q", cfg.Database.Driver)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
