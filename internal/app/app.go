// Package app wires configuration, storage, services and the HTTP router together.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/daily-diet/internal/api"
	"github.com/sirpyerre/daily-diet/internal/core/ports"
	"github.com/sirpyerre/daily-diet/internal/core/service"
	"github.com/sirpyerre/daily-diet/internal/infrastructure/db"
	"github.com/sirpyerre/daily-diet/internal/infrastructure/db/redis"
	"github.com/sirpyerre/daily-diet/internal/infrastructure/http/handlers"
	"github.com/sirpyerre/daily-diet/internal/pkg/config"
)

// App owns every long-lived resource of a running server.
type App struct {
	Echo  *echo.Echo
	store db.Store
	redis *goredis.Client
	log   zerolog.Logger
}

// Options tweak wiring for tests.
type Options struct {
	// Registry isolates HTTP metrics. Nil uses the Prometheus default registry.
	Registry *prometheus.Registry
}

// New opens the store (and Redis when configured) and builds the router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (*App, error) {
	store, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Info().Str("driver", store.Name()).Msg("store ready")

	a := &App{store: store, log: log}

	var idempotency ports.IdempotencyStore
	readiness := map[string]handlers.Pinger{"store": store}
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		idempotency = redis.NewIdempotencyStore(client, 0)
		readiness["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis ready, idempotency keys enabled")
	}

	tokens := service.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)

	a.Echo = api.NewRouter(api.Deps{
		Logger:               log,
		AuthService:          service.NewAuthService(store.Users(), hasher, tokens, log),
		MealService:          service.NewMealService(store.Meals(), idempotency, log),
		Tokens:               tokens,
		Readiness:            readiness,
		UsersEndpointEnabled: cfg.UsersEndpointEnabled,
		Registry:             opts.Registry,
	})
	return a, nil
}

// Close releases Redis and the store. It does not stop the HTTP server.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := a.store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
