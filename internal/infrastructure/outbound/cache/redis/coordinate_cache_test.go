package redis_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	"community-feed-service/internal/infrastructure/config"
	"community-feed-service/internal/infrastructure/logger"
	redis_cache "community-feed-service/internal/infrastructure/outbound/cache/redis"
	"community-feed-service/internal/infrastructure/outbound/metrics/prometheus"
)

func setupCache(t *testing.T) (*redis_cache.CoordinateCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	log := logger.New("test")
	client, err := redis_cache.NewClient(config.Redis{Address: mr.Host(), Port: port}, log, prometheus.NewPrometheusMetricsProvider())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return redis_cache.NewCoordinateCache(client, log, time.Hour), mr
}

func TestCoordinateCache_RoundTrip(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	_, err := cache.GetCoordinates(ctx, "1 Main St")
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)

	want := &model.Coordinates{Latitude: 30.27, Longitude: -97.74}
	require.NoError(t, cache.SetCoordinates(ctx, "1 Main St", want))

	got, err := cache.GetCoordinates(ctx, "  1   MAIN st ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCoordinateCache_Expires(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetCoordinates(ctx, "2 Elm St", &model.Coordinates{Latitude: 1, Longitude: 2}))
	mr.FastForward(2 * time.Hour)

	_, err := cache.GetCoordinates(ctx, "2 Elm St")
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)
}

func TestCoordinateCache_RejectsNil(t *testing.T) {
	cache, _ := setupCache(t)
	assert.Error(t, cache.SetCoordinates(context.Background(), "x", nil))
}

func TestCoordinateCache_BackendDown(t *testing.T) {
	cache, mr := setupCache(t)
	mr.Close()

	_, err := cache.GetCoordinates(context.Background(), "3 Oak St")
	require.Error(t, err)
	assert.NotErrorIs(t, err, custom_errors.ErrCacheMiss)
}
