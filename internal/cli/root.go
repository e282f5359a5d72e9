// Package cli exposes the daily-diet commands.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sirpyerre/daily-diet/internal/pkg/config"
	"github.com/sirpyerre/daily-diet/pkg/logger"
)

const serviceName = "daily-diet"

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "daily-diet",
	Short:         "Daily diet API",
	Long:          `Daily diet is an HTTP API for logging meals and tracking on-diet streaks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("%s version %s\n", serviceName, version)
	},
}

// bootstrap loads configuration and initialises the logger. A config error is returned
// before anything else starts.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	return cfg, log, nil
}
