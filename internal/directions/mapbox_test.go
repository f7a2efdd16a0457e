package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-walk-router/internal/models"
)

// memoryDistanceCache is an in-memory stand-in for the persistent distance
// cache, keyed the same way (rounded coordinates)
type memoryDistanceCache struct {
	mu      sync.Mutex
	entries map[string]models.DistanceCacheEntry
	setErr  error
}

func newMemoryDistanceCache() *memoryDistanceCache {
	return &memoryDistanceCache{entries: make(map[string]models.DistanceCacheEntry)}
}

func pairCacheKey(origin, dest models.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f->%.5f,%.5f",
		models.RoundCoordinate(origin.Lng), models.RoundCoordinate(origin.Lat),
		models.RoundCoordinate(dest.Lng), models.RoundCoordinate(dest.Lat))
}

func (c *memoryDistanceCache) Get(ctx context.Context, origin, dest models.Coordinates) (*models.DistanceCacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[pairCacheKey(origin, dest)]; ok {
		return &entry, nil
	}
	return nil, nil
}

func (c *memoryDistanceCache) Set(ctx context.Context, entry *models.DistanceCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[pairCacheKey(entry.Origin, entry.Destination)] = *entry
	return nil
}

func (c *memoryDistanceCache) SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	for _, entry := range entries {
		c.entries[pairCacheKey(entry.Origin, entry.Destination)] = entry
	}
	return nil
}

func newTestGateway(baseURL string, cache DistanceCacheRepository) *mapboxGateway {
	return &mapboxGateway{
		baseURL:     baseURL,
		accessToken: "test-token",
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		cache:       cache,
		respCache:   gocache.New(time.Minute, time.Minute),
	}
}

func TestNewMapboxGatewayRequiresToken(t *testing.T) {
	_, err := NewMapboxGateway("", newMemoryDistanceCache())
	require.Error(t, err)

	var tokenErr *ErrMissingAccessToken
	assert.True(t, errors.As(err, &tokenErr))
}

func TestMatrixParsesResponse(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":      "Ok",
			"distances": [][]float64{{0, 850, 1200}},
			"durations": [][]float64{{0, 700, 950}},
		})
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())

	origin := models.Coordinates{Lng: 101.6878, Lat: 3.1375}
	dests := []models.Coordinates{
		{Lng: 101.6873, Lat: 3.1372},
		{Lng: 101.6864, Lat: 3.1344},
	}

	res, err := g.Matrix(context.Background(), origin, dests)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotPath, "/directions-matrix/v1/mapbox/walking/"))
	assert.Equal(t, []float64{850, 1200}, res.Distances)
	assert.Equal(t, []float64{700, 950}, res.Durations)
}

func TestMatrixAllCachedSkipsProvider(t *testing.T) {
	cache := newMemoryDistanceCache()
	origin := models.Coordinates{Lng: 101.6878, Lat: 3.1375}
	dest := models.Coordinates{Lng: 101.6873, Lat: 3.1372}
	require.NoError(t, cache.Set(context.Background(), &models.DistanceCacheEntry{
		Origin: origin, Destination: dest, DistanceMeters: 500, DurationSecs: 400,
	}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called when every pair is cached")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, cache)
	res, err := g.Matrix(context.Background(), origin, []models.Coordinates{dest})
	require.NoError(t, err)
	assert.Equal(t, []float64{500}, res.Distances)
	assert.Equal(t, []float64{400}, res.Durations)
}

func TestMatrixNonOkCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"code": "NoRoute"})
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())
	_, err := g.Matrix(context.Background(), models.Coordinates{}, []models.Coordinates{{Lng: 1, Lat: 1}})

	var dirErr *ErrDirectionsFailed
	require.True(t, errors.As(err, &dirErr))
	assert.Contains(t, dirErr.Reason, "NoRoute")
}

func TestMatrixMissingDurationsIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":      "Ok",
			"distances": [][]float64{{0, 850}},
		})
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())
	_, err := g.Matrix(context.Background(), models.Coordinates{}, []models.Coordinates{{Lng: 1, Lat: 1}})

	var dirErr *ErrDirectionsFailed
	require.True(t, errors.As(err, &dirErr))
	assert.Contains(t, dirErr.Reason, "malformed")
}

func TestMatrixBatchesLargeDestinationSets(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Coordinate count comes from the path: origin;dest;dest;...
		segments := strings.Split(r.URL.Path, "/")
		coords := segments[len(segments)-1]
		n := strings.Count(coords, ";")
		require.LessOrEqual(t, n+1, 25, "request exceeds the provider coordinate limit")

		row := make([]float64, n+1)
		for i := 1; i <= n; i++ {
			row[i] = float64(100 * i)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":      "Ok",
			"distances": [][]float64{row},
			"durations": [][]float64{row},
		})
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())

	origin := models.Coordinates{Lng: 101.68, Lat: 3.13}
	dests := make([]models.Coordinates, 30)
	for i := range dests {
		dests[i] = models.Coordinates{Lng: 101.0 + float64(i)*0.001, Lat: 3.0}
	}

	res, err := g.Matrix(context.Background(), origin, dests)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	require.Len(t, res.Distances, 30)
	require.Len(t, res.Durations, 30)
	for i, d := range res.Distances {
		assert.Greater(t, d, 0.0, "destination %d missing from batched results", i)
	}
}

func TestDirectionsParsesGeometryAndSteps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": "Ok",
			"routes": []map[string]interface{}{{
				"distance": 850.0,
				"duration": 700.0,
				"geometry": map[string]interface{}{
					"coordinates": [][]float64{{101.6873, 3.1372}, {101.6876, 3.1374}, {101.6878, 3.1375}},
				},
				"legs": []map[string]interface{}{{
					"steps": []map[string]interface{}{
						{"distance": 500.0, "duration": 420.0, "maneuver": map[string]string{"instruction": "Walk south on Jalan Damansara"}},
						{"distance": 350.0, "duration": 280.0, "maneuver": map[string]string{"instruction": "Cross the road at the junction"}},
					},
				}},
			}},
		})
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())
	res, err := g.Directions(context.Background(),
		models.Coordinates{Lng: 101.6873, Lat: 3.1372},
		models.Coordinates{Lng: 101.6878, Lat: 3.1375})
	require.NoError(t, err)

	assert.Equal(t, 850.0, res.DistanceMeters)
	assert.Equal(t, 700.0, res.DurationSecs)
	require.Len(t, res.Geometry, 3)
	assert.Equal(t, models.Coordinates{Lng: 101.6876, Lat: 3.1374}, res.Geometry[1])

	require.Len(t, res.Steps, 2)
	assert.False(t, res.Steps[0].IsCrossing)
	assert.True(t, res.Steps[1].IsCrossing)
}

func TestDirectionsMemoizesResponses(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": "Ok",
			"routes": []map[string]interface{}{{
				"distance": 100.0, "duration": 80.0,
				"geometry": map[string]interface{}{"coordinates": [][]float64{{101.0, 3.0}, {101.001, 3.0}}},
				"legs":     []map[string]interface{}{},
			}},
		})
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())
	start := models.Coordinates{Lng: 101.0, Lat: 3.0}
	end := models.Coordinates{Lng: 101.001, Lat: 3.0}

	_, err := g.Directions(context.Background(), start, end)
	require.NoError(t, err)
	_, err = g.Directions(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestDirectionsSurvivesCacheWriteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": "Ok",
			"routes": []map[string]interface{}{{
				"distance": 100.0, "duration": 80.0,
				"geometry": map[string]interface{}{"coordinates": [][]float64{{101.0, 3.0}, {101.001, 3.0}}},
				"legs":     []map[string]interface{}{},
			}},
		})
	}))
	defer srv.Close()

	cache := newMemoryDistanceCache()
	cache.setErr = errors.New("disk full")
	g := newTestGateway(srv.URL, cache)

	res, err := g.Directions(context.Background(), models.Coordinates{Lng: 1, Lat: 1}, models.Coordinates{Lng: 2, Lat: 2})
	require.NoError(t, err, "a cache write failure must not discard the result")
	assert.Equal(t, 100.0, res.DistanceMeters)
}

func TestDirectionsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())
	_, err := g.Directions(context.Background(), models.Coordinates{Lng: 1, Lat: 1}, models.Coordinates{Lng: 2, Lat: 2})

	var dirErr *ErrDirectionsFailed
	require.True(t, errors.As(err, &dirErr))
	assert.Contains(t, dirErr.Reason, "502")
}

func TestDirectionsNoRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"code": "Ok", "routes": []interface{}{}})
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())
	_, err := g.Directions(context.Background(), models.Coordinates{Lng: 1, Lat: 1}, models.Coordinates{Lng: 2, Lat: 2})

	var dirErr *ErrDirectionsFailed
	require.True(t, errors.As(err, &dirErr))
	assert.Contains(t, dirErr.Reason, "no route")
}

func TestCancellationIsNotAProviderFailure(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, newMemoryDistanceCache())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := g.Directions(ctx, models.Coordinates{Lng: 1, Lat: 1}, models.Coordinates{Lng: 2, Lat: 2})
	require.Error(t, err)

	// Cancellation must come back as the context error, not wrapped into a
	// provider failure, so the resolver can stay silent about it
	assert.ErrorIs(t, err, context.Canceled)
	var dirErr *ErrDirectionsFailed
	assert.False(t, errors.As(err, &dirErr))
}
