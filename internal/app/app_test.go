package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirpyerre/daily-diet/internal/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:                 "0",
		Env:                  "test",
		JWTSecret:            "secret",
		JWTTTL:               time.Hour,
		BcryptCost:           4,
		UsersEndpointEnabled: true,
		Database: config.DatabaseConfig{
			Client: "sqlite",
			URL:    filepath.Join(t.TempDir(), "diet.db"),
		},
	}
}

func TestNew_WiresSQLiteWithoutRedis(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), zerolog.Nop(), Options{Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	assert.Nil(t, a.redis)

	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store"`)
	assert.NotContains(t, rec.Body.String(), `"redis"`)
}

func TestNew_FailsOnUnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg, zerolog.Nop(), Options{Registry: prometheus.NewRegistry()})
	assert.ErrorContains(t, err, "connect redis")
}

func TestNew_FailsOnUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Client = "oracle"

	_, err := New(context.Background(), cfg, zerolog.Nop(), Options{})
	assert.ErrorContains(t, err, "open store")
}
