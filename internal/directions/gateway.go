package directions

import (
	"context"
	"fmt"

	"station-walk-router/internal/models"
)

// MatrixResult holds one-to-many walking distances and durations from a
// single origin. Index i corresponds to destinations[i]. Matrix responses
// never carry geometry.
type MatrixResult struct {
	Distances []float64
	Durations []float64
}

// DirectionsResult holds a point-to-point walking route with geometry and
// turn-by-turn steps
type DirectionsResult struct {
	DistanceMeters float64
	DurationSecs   float64
	Geometry       []models.Coordinates
	Steps          []models.RouteStep
}

// Gateway abstracts the external routing provider. Both operations honor
// context cancellation and return the context error unwrapped, so callers
// can tell a cancelled request apart from a failed one.
type Gateway interface {
	Matrix(ctx context.Context, origin models.Coordinates, destinations []models.Coordinates) (*MatrixResult, error)
	Directions(ctx context.Context, start, end models.Coordinates) (*DirectionsResult, error)
}

// DistanceCacheRepository persists distance/duration pairs between calls
type DistanceCacheRepository interface {
	Get(ctx context.Context, origin, dest models.Coordinates) (*models.DistanceCacheEntry, error)
	Set(ctx context.Context, entry *models.DistanceCacheEntry) error
	SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error
}

// ErrDirectionsFailed is returned when the routing provider fails
type ErrDirectionsFailed struct {
	Reason string
}

func (e *ErrDirectionsFailed) Error() string {
	return fmt.Sprintf("directions request failed: %s", e.Reason)
}

// ErrMissingAccessToken is returned when no provider credential is
// configured. Detected before any network call is attempted.
type ErrMissingAccessToken struct{}

func (e *ErrMissingAccessToken) Error() string {
	return "missing MAPBOX_ACCESS_TOKEN: set it in the environment or .env"
}
