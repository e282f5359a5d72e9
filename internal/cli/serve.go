package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirpyerre/daily-diet/internal/app"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, log, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		a, err := app.New(ctx, cfg, log, app.Options{})
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server starting")
			if err := a.Echo.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		var serveErr error
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown signal received")
		case serveErr = <-errCh:
			log.Error().Err(serveErr).Msg("server stopped unexpectedly")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
		if err := a.Close(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("release resources")
		}
		log.Info().Msg("server stopped")
		return serveErr
	},
}
