package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"user-service/cmd/api/infrastructure"
	"user-service/internal/adapter/db/gormrepo"
)

func init() {
	rootCommand.AddCommand(migrateCommand)
}

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "creates or updates the users table",
	Long: `Apply the users table schema, including the unique userName index.

Examples:
  admin migrate --config=./deploy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()

		cfg.DB.AutoMigrate = false
		db, err := infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return fmt.Errorf("open connection: %w", err)
		}
		defer func() { _ = infrastructure.CloseDatabase(db) }()

		fmt.Fprintln(cmd.OutOrStdout(), "applying migrations...")
		if err := gormrepo.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "migration completed!")
		return nil
	},
}
