package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"user-service/internal/config"
	"user-service/pkg/logger"
)

var configPath string

var rootCommand = &cobra.Command{
	Use:   "admin",
	Short: "admin cli for the user service",
	Long:  "admin cli to migrate the database and check configuration of the user service",
	RunE: func(cmd *cobra.Command, args []string) error {
		// show help if no sub-command is provided
		return cmd.Help()
	},
}

func init() {
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "Directory holding app.env and .env.")
}

// Execute runs the admin command line.
func Execute() error {
	return rootCommand.Execute()
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     "stderr",
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    cfg.App.Environment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, l, nil
}
