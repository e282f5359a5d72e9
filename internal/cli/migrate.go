package cli

import (
	"github.com/spf13/cobra"

	"github.com/sirpyerre/daily-diet/internal/infrastructure/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	Long:  `Applies pending SQL migrations, or ensures indexes when DATABASE_CLIENT is mongo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		driver, err := db.Migrate(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		log.Info().Str("driver", driver).Msg("migrations applied")
		return nil
	},
}
