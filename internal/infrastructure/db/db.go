// Package db selects and opens the persistence backend named by DATABASE_CLIENT.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirpyerre/daily-diet/internal/core/ports"
	"github.com/sirpyerre/daily-diet/internal/infrastructure/db/mongo"
	"github.com/sirpyerre/daily-diet/internal/infrastructure/db/sqlstore"
	"github.com/sirpyerre/daily-diet/internal/pkg/config"
)

// Store is the persistence backend shared by the services.
type Store interface {
	Users() ports.UserRepository
	Meals() ports.MealRepository
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// IsMongo reports whether client names the document store.
func IsMongo(client string) bool {
	switch strings.ToLower(strings.TrimSpace(client)) {
	case "mongo", "mongodb":
		return true
	}
	return false
}

// Open connects to the configured backend. SQL backends are migrated and Mongo
// indexes are ensured before it returns.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	if IsMongo(cfg.Client) {
		s, err := mongo.Open(ctx, mongo.Config{URI: cfg.URL, Database: cfg.MongoDB})
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	dialect, err := sqlstore.ParseDialect(cfg.Client)
	if err != nil {
		return nil, err
	}
	s, err := sqlstore.Open(ctx, dialect, cfg.URL)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate applies SQL migrations without serving traffic. Mongo has no schema,
// so it only ensures indexes.
func Migrate(ctx context.Context, cfg config.DatabaseConfig) (string, error) {
	s, err := Open(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}
	name := s.Name()
	if err := s.Close(ctx); err != nil {
		return name, fmt.Errorf("migrate: close: %w", err)
	}
	return name, nil
}
