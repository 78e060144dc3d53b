//go:build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/fertilizer-service/config"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func databaseConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		URI:                            testutil.SharedURI(),
		DatabaseName:                   testutil.SanitizeDBName(t.Name()),
		LogsTTL:                        30 * 24 * time.Hour,
		Enabled:                        true,
		CircuitBreakerFailureThreshold: 5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,
	}
}

func TestInitializeDatabase_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("initialize with enabled database", func(t *testing.T) {
		t.Parallel()
		components := InitializeDatabase(databaseConfig(t))

		require.NotNil(t, components)
		defer components.Close(ctx)
		assert.NotNil(t, components.LoggingService)
		assert.NotNil(t, components.LogsCircuitBreaker)
		assert.NoError(t, components.HealthCheck())
	})

	t.Run("initialize with disabled database", func(t *testing.T) {
		t.Parallel()
		components := InitializeDatabase(config.DatabaseConfig{Enabled: false})
		assert.Nil(t, components)
	})

	t.Run("logging service round trip", func(t *testing.T) {
		t.Parallel()
		components := InitializeDatabase(databaseConfig(t))
		require.NotNil(t, components)
		defer components.Close(ctx)

		err := components.LoggingService.CreateLogs(ctx, []*model.LogEntry{
			{Level: "info", Message: "recommendation served", FarmID: "farm001", ActionType: "recommend"},
			{Level: "warn", Message: "fallback prescription", FarmID: "farm001", ActionType: "recommend", Degraded: true},
		})
		require.NoError(t, err)

		count, err := components.LoggingService.CountLogs(ctx, model.LogQueryOptions{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		actions, err := components.LoggingService.ActionCounts(ctx, model.LogQueryOptions{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, actions["recommend"])
	})

	t.Run("circuit breaker starts closed", func(t *testing.T) {
		t.Parallel()
		cfg := databaseConfig(t)
		cfg.CircuitBreakerFailureThreshold = 2
		cfg.CircuitBreakerSuccessThreshold = 1
		cfg.CircuitBreakerTimeout = 100 * time.Millisecond

		components := InitializeDatabase(cfg)
		require.NotNil(t, components)
		defer components.Close(ctx)

		stats := components.LogsCircuitBreaker.GetStats()
		assert.Equal(t, "closed", stats.State)
		assert.True(t, stats.IsHealthy)
	})
}
