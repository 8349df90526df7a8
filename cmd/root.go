package cmd

import (
	"fmt"
	"os"

	"github.com/arboriq/arboriq-api/config"
	"github.com/arboriq/arboriq-api/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "arboriq-api"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "arboriq",
		Short: "ArborIQ tree inventory API",
		Long: `ArborIQ serves the tree inventory REST API backed by PostgreSQL/PostGIS.
Settings come from the environment (and .env files), optionally overlaid by a YAML file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file overlaying environment settings")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger every command shares
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
