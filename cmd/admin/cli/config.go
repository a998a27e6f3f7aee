package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCommand.AddCommand(checkConfigCommand)
}

var checkConfigCommand = &cobra.Command{
	Use:   "check-config",
	Short: "validates configuration without starting the service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "environment: %s\n", cfg.App.Environment)
		fmt.Fprintf(out, "database:    %s\n", cfg.DB.Driver)
		fmt.Fprintf(out, "http:        :%s\n", cfg.App.HTTPPort)
		fmt.Fprintf(out, "grpc:        :%s\n", cfg.App.GRPCPort)
		fmt.Fprintf(out, "redis:       %t\n", cfg.Redis.Enabled)
		fmt.Fprintf(out, "rate limit:  %t\n", cfg.RateLimit.Enabled)
		fmt.Fprintln(out, "configuration is valid")
		return nil
	},
}
