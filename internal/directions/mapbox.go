package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"station-walk-router/internal/models"
)

const (
	defaultBaseURL     = "https://api.mapbox.com"
	walkingProfile     = "mapbox/walking"
	defaultHTTPTimeout = 15 * time.Second

	// Full directions responses (geometry included) are memoized briefly;
	// road networks do not change within a session
	directionsCacheTTL = 10 * time.Minute

	// The matrix endpoint caps a request at 25 coordinates; one slot goes to
	// the origin, so destinations are batched in groups of 24
	maxMatrixDestinations = 24
)

type mapboxGateway struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	cache       DistanceCacheRepository
	respCache   *gocache.Cache
}

// NewMapboxGateway creates a Gateway backed by the Mapbox walking profile.
// Fails fast when the access token is empty, before any network call.
func NewMapboxGateway(accessToken string, cache DistanceCacheRepository) (Gateway, error) {
	if accessToken == "" {
		return nil, &ErrMissingAccessToken{}
	}
	return &mapboxGateway{
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
		cache:       cache,
		respCache:   gocache.New(directionsCacheTTL, 2*directionsCacheTTL),
	}, nil
}

type matrixResponse struct {
	Code      string      `json:"code"`
	Distances [][]float64 `json:"distances"`
	Durations [][]float64 `json:"durations"`
}

type directionsResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Legs []struct {
			Steps []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Maneuver struct {
					Instruction string `json:"instruction"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

func coordString(points ...models.Coordinates) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.6f,%.6f", p.Lng, p.Lat)
	}
	return strings.Join(parts, ";")
}

func (g *mapboxGateway) Matrix(ctx context.Context, origin models.Coordinates, destinations []models.Coordinates) (*MatrixResult, error) {
	if len(destinations) == 0 {
		return &MatrixResult{}, nil
	}

	result := &MatrixResult{
		Distances: make([]float64, len(destinations)),
		Durations: make([]float64, len(destinations)),
	}

	// Serve fully-cached requests without touching the provider
	var missing []int
	for i, dest := range destinations {
		cached, err := g.cache.Get(ctx, origin, dest)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			result.Distances[i] = cached.DistanceMeters
			result.Durations[i] = cached.DurationSecs
		} else {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		log.Printf("[MAPBOX] Matrix all cached: destinations=%d", len(destinations))
		return result, nil
	}

	log.Printf("[MAPBOX] Matrix request: destinations=%d cached=%d", len(destinations), len(destinations)-len(missing))

	for start := 0; start < len(missing); start += maxMatrixDestinations {
		end := start + maxMatrixDestinations
		if end > len(missing) {
			end = len(missing)
		}
		if err := g.fetchMatrixBatch(ctx, origin, destinations, missing[start:end], result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// fetchMatrixBatch requests one provider-sized batch of destinations (given
// by their indices) and writes distances/durations back into result
func (g *mapboxGateway) fetchMatrixBatch(ctx context.Context, origin models.Coordinates, destinations []models.Coordinates, indices []int, result *MatrixResult) error {
	batch := make([]models.Coordinates, 0, len(indices)+1)
	batch = append(batch, origin)
	for _, idx := range indices {
		batch = append(batch, destinations[idx])
	}

	queryURL := fmt.Sprintf("%s/directions-matrix/v1/%s/%s?sources=0&annotations=distance,duration&access_token=%s",
		g.baseURL, walkingProfile, coordString(batch...), g.accessToken)

	var mr matrixResponse
	if err := g.getJSON(ctx, queryURL, &mr); err != nil {
		return err
	}
	if mr.Code != "Ok" {
		log.Printf("[ERROR] Matrix returned error code: code=%s", mr.Code)
		return &ErrDirectionsFailed{Reason: fmt.Sprintf("provider error: %s", mr.Code)}
	}
	if len(mr.Distances) == 0 || len(mr.Distances[0]) != len(indices)+1 ||
		len(mr.Durations) == 0 || len(mr.Durations[0]) != len(indices)+1 {
		return &ErrDirectionsFailed{Reason: "malformed matrix response"}
	}

	var entries []models.DistanceCacheEntry
	for i, idx := range indices {
		dist := mr.Distances[0][i+1]
		dur := mr.Durations[0][i+1]
		result.Distances[idx] = dist
		result.Durations[idx] = dur
		if dist > 0 {
			entries = append(entries, models.DistanceCacheEntry{
				Origin:         origin,
				Destination:    destinations[idx],
				DistanceMeters: dist,
				DurationSecs:   dur,
			})
		}
	}
	if len(entries) > 0 {
		if err := g.cache.SetBatch(ctx, entries); err != nil {
			return err
		}
	}
	return nil
}

func (g *mapboxGateway) Directions(ctx context.Context, start, end models.Coordinates) (*DirectionsResult, error) {
	cacheKey := fmt.Sprintf("%.5f,%.5f->%.5f,%.5f",
		models.RoundCoordinate(start.Lng), models.RoundCoordinate(start.Lat),
		models.RoundCoordinate(end.Lng), models.RoundCoordinate(end.Lat))
	if cached, ok := g.respCache.Get(cacheKey); ok {
		res := cached.(DirectionsResult)
		return &res, nil
	}

	queryURL := fmt.Sprintf("%s/directions/v5/%s/%s?geometries=geojson&steps=true&overview=full&access_token=%s",
		g.baseURL, walkingProfile, coordString(start, end), g.accessToken)

	var dr directionsResponse
	if err := g.getJSON(ctx, queryURL, &dr); err != nil {
		return nil, err
	}
	if dr.Code != "Ok" {
		log.Printf("[ERROR] Directions returned error code: code=%s", dr.Code)
		return nil, &ErrDirectionsFailed{Reason: fmt.Sprintf("provider error: %s", dr.Code)}
	}
	if len(dr.Routes) == 0 {
		return nil, &ErrDirectionsFailed{Reason: "no route found"}
	}

	route := dr.Routes[0]
	result := DirectionsResult{
		DistanceMeters: route.Distance,
		DurationSecs:   route.Duration,
	}
	for _, c := range route.Geometry.Coordinates {
		if len(c) >= 2 {
			result.Geometry = append(result.Geometry, models.Coordinates{Lng: c[0], Lat: c[1]})
		}
	}
	for _, leg := range route.Legs {
		for _, step := range leg.Steps {
			result.Steps = append(result.Steps, models.RouteStep{
				Instruction:    step.Maneuver.Instruction,
				DistanceMeters: step.Distance,
				DurationSecs:   step.Duration,
				IsCrossing:     models.IsCrossingInstruction(step.Maneuver.Instruction),
			})
		}
	}

	g.respCache.Set(cacheKey, result, gocache.DefaultExpiration)

	// The persistent cache is an optimization; a write failure must not cost
	// us a result we already have
	if err := g.cache.Set(ctx, &models.DistanceCacheEntry{
		Origin:         start,
		Destination:    end,
		DistanceMeters: result.DistanceMeters,
		DurationSecs:   result.DurationSecs,
	}); err != nil {
		log.Printf("[MAPBOX] Distance cache write failed: err=%v", err)
	}

	return &result, nil
}

// getJSON issues a GET and decodes the response. Context cancellation comes
// back as the bare context error so callers can distinguish it from a
// provider failure.
func (g *mapboxGateway) getJSON(ctx context.Context, queryURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", queryURL, nil)
	if err != nil {
		return &ErrDirectionsFailed{Reason: err.Error()}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[ERROR] Provider request failed: err=%v", err)
		return &ErrDirectionsFailed{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[ERROR] Provider error: status=%d body=%s", resp.StatusCode, string(body))
		return &ErrDirectionsFailed{Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ErrDirectionsFailed{Reason: err.Error()}
	}
	return nil
}
