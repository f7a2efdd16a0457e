package testutil

import (
	"context"
	"fmt"
	"math"
	"sync"

	"station-walk-router/internal/directions"
	"station-walk-router/internal/models"
)

// GatewayCall tracks one call to the mock gateway
type GatewayCall struct {
	Op     string // "matrix" or "directions"
	Origin models.Coordinates
	Dest   models.Coordinates
}

// MockGateway is a deterministic directions.Gateway for tests. By default it
// derives distance from scaled Euclidean degrees and assumes 1.2 m/s walking
// speed; individual pairs can be overridden or made to fail.
type MockGateway struct {
	mu          sync.Mutex
	ScaleFactor float64
	Overrides   map[string]*directions.DirectionsResult
	Failures    map[string]error
	MatrixErr   error
	Calls       []GatewayCall
	// Block, when non-nil, parks Directions calls until the channel is
	// closed or the context is cancelled; used to exercise cancellation
	// mid-flight. BlockDest narrows blocking to calls toward one
	// destination so a superseding request can still complete.
	Block     chan struct{}
	BlockDest *models.Coordinates
}

// NewMockGateway creates a mock gateway with defaults
func NewMockGateway() *MockGateway {
	return &MockGateway{
		ScaleFactor: 111000, // 1 degree is roughly 111km
		Overrides:   make(map[string]*directions.DirectionsResult),
		Failures:    make(map[string]error),
	}
}

func pairKey(origin, dest models.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f->%.5f,%.5f", origin.Lng, origin.Lat, dest.Lng, dest.Lat)
}

// SetRoute overrides the result for one origin/destination pair
func (m *MockGateway) SetRoute(origin, dest models.Coordinates, distMeters, durSecs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Overrides[pairKey(origin, dest)] = &directions.DirectionsResult{
		DistanceMeters: distMeters,
		DurationSecs:   durSecs,
		Geometry:       []models.Coordinates{origin, dest},
		Steps: []models.RouteStep{{
			Instruction:    "Walk to the destination",
			DistanceMeters: distMeters,
			DurationSecs:   durSecs,
		}},
	}
}

// FailRoute makes one origin/destination pair fail with err
func (m *MockGateway) FailRoute(origin, dest models.Coordinates, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[pairKey(origin, dest)] = err
}

// CallCount returns the number of calls of the given op ("" counts all)
func (m *MockGateway) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op == "" {
		return len(m.Calls)
	}
	n := 0
	for _, c := range m.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (m *MockGateway) defaultResult(origin, dest models.Coordinates) *directions.DirectionsResult {
	dLat := dest.Lat - origin.Lat
	dLng := dest.Lng - origin.Lng
	dist := math.Sqrt(dLat*dLat+dLng*dLng) * m.ScaleFactor
	dur := dist / 1.2
	return &directions.DirectionsResult{
		DistanceMeters: dist,
		DurationSecs:   dur,
		Geometry:       []models.Coordinates{origin, dest},
		Steps: []models.RouteStep{{
			Instruction:    "Walk to the destination",
			DistanceMeters: dist,
			DurationSecs:   dur,
		}},
	}
}

// Directions returns the configured or derived route for one pair
func (m *MockGateway) Directions(ctx context.Context, start, end models.Coordinates) (*directions.DirectionsResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, GatewayCall{Op: "directions", Origin: start, Dest: end})
	block := m.Block
	if block != nil && m.BlockDest != nil && !models.SamePoint(*m.BlockDest, end) {
		block = nil
	}
	failure := m.Failures[pairKey(start, end)]
	override := m.Overrides[pairKey(start, end)]
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	if override != nil {
		res := *override
		return &res, nil
	}
	return m.defaultResult(start, end), nil
}

// Matrix returns one-to-many results derived from Directions data
func (m *MockGateway) Matrix(ctx context.Context, origin models.Coordinates, destinations []models.Coordinates) (*directions.MatrixResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, GatewayCall{Op: "matrix", Origin: origin})
	matrixErr := m.MatrixErr
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if matrixErr != nil {
		return nil, matrixErr
	}

	result := &directions.MatrixResult{
		Distances: make([]float64, len(destinations)),
		Durations: make([]float64, len(destinations)),
	}
	for i, dest := range destinations {
		m.mu.Lock()
		override := m.Overrides[pairKey(dest, origin)]
		m.mu.Unlock()
		if override != nil {
			result.Distances[i] = override.DistanceMeters
			result.Durations[i] = override.DurationSecs
			continue
		}
		res := m.defaultResult(origin, dest)
		result.Distances[i] = res.DistanceMeters
		result.Durations[i] = res.DurationSecs
	}
	return result, nil
}
