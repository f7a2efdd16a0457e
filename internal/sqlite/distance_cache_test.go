package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-walk-router/internal/models"
)

func newTestCache(t *testing.T) *DistanceCache {
	t.Helper()
	cache, err := New(filepath.Join(t.TempDir(), "walkcache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestGetMissReturnsNil(t *testing.T) {
	cache := newTestCache(t)

	entry, err := cache.Get(context.Background(),
		models.Coordinates{Lng: 101.6873, Lat: 3.1372},
		models.Coordinates{Lng: 101.6878, Lat: 3.1375},
	)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSetThenGetRoundsCoordinates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	origin := models.Coordinates{Lng: 101.68730, Lat: 3.13720}
	dest := models.Coordinates{Lng: 101.68780, Lat: 3.13750}
	require.NoError(t, cache.Set(ctx, &models.DistanceCacheEntry{
		Origin:         origin,
		Destination:    dest,
		DistanceMeters: 220,
		DurationSecs:   300,
	}))

	// Lookup with sub-precision jitter must still hit the same row
	jittered := models.Coordinates{Lng: 101.687301, Lat: 3.137199}
	entry, err := cache.Get(ctx, jittered, dest)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 220.0, entry.DistanceMeters)
	assert.Equal(t, 300.0, entry.DurationSecs)
}

func TestSetReplacesExistingEntry(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	origin := models.Coordinates{Lng: 101.6873, Lat: 3.1372}
	dest := models.Coordinates{Lng: 101.6878, Lat: 3.1375}
	require.NoError(t, cache.Set(ctx, &models.DistanceCacheEntry{Origin: origin, Destination: dest, DistanceMeters: 220, DurationSecs: 300}))
	require.NoError(t, cache.Set(ctx, &models.DistanceCacheEntry{Origin: origin, Destination: dest, DistanceMeters: 240, DurationSecs: 320}))

	entry, err := cache.Get(ctx, origin, dest)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 240.0, entry.DistanceMeters)

	count, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSetBatchAndClear(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	entries := []models.DistanceCacheEntry{
		{
			Origin:         models.Coordinates{Lng: 101.6873, Lat: 3.1372},
			Destination:    models.Coordinates{Lng: 101.6878, Lat: 3.1375},
			DistanceMeters: 220,
			DurationSecs:   300,
		},
		{
			Origin:         models.Coordinates{Lng: 101.6900, Lat: 3.1380},
			Destination:    models.Coordinates{Lng: 101.6878, Lat: 3.1375},
			DistanceMeters: 250,
			DurationSecs:   210,
		},
	}
	require.NoError(t, cache.SetBatch(ctx, entries))

	count, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, cache.Clear(ctx))
	count, err = cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSetBatchEmptyIsNoop(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.SetBatch(context.Background(), nil))
	count, err := cache.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
