// Package resolver orchestrates station lookup, the indoor catalog and the
// directions gateway into a ranked set of walking routes for one destination.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"station-walk-router/internal/directions"
	"station-walk-router/internal/geo"
	"station-walk-router/internal/indoor"
	"station-walk-router/internal/models"
	"station-walk-router/internal/stations"
)

// Options tunes the resolution algorithm
type Options struct {
	// SearchRadiusMeters bounds the candidate station pre-filter
	SearchRadiusMeters float64
	// MaxWalkingSecs drops stations whose best route takes longer. Domain
	// threshold, not a request timeout.
	MaxWalkingSecs float64
	// MaxDetourMeters is the indoor-connection proximity tolerance
	MaxDetourMeters float64
	// IndoorScoreFactor scales an indoor route's duration when picking the
	// best exit per station. 0.7 treats indoor as 30% faster, biasing
	// selection toward comfort. Placeholder heuristic with no empirical
	// basis; tune freely.
	IndoorScoreFactor float64
}

// DefaultOptions returns the production tuning
func DefaultOptions() Options {
	return Options{
		SearchRadiusMeters: 800,
		MaxWalkingSecs:     900,
		MaxDetourMeters:    indoor.DefaultMaxDetourMeters,
		IndoorScoreFactor:  0.7,
	}
}

// State is the resolution session state
type State string

const (
	StateIdle      State = "idle"
	StateResolving State = "resolving"
	StateResolved  State = "resolved"
	StateSwitching State = "switching"
)

// ErrRouteNotFound is returned when no resolved route matches a lookup
var ErrRouteNotFound = errors.New("route not found")

// ErrResolutionFailed is returned when the routing provider prevented any
// result at all. Distinct from "zero reachable stations", which is an empty
// result without error.
type ErrResolutionFailed struct {
	Reason string
}

func (e *ErrResolutionFailed) Error() string {
	return fmt.Sprintf("route resolution failed: %s", e.Reason)
}

// ResolutionResult is the output of one resolution: routes sorted ascending
// by duration, with the first designated active
type ResolutionResult struct {
	Routes        []models.WalkingRoute `json:"routes"`
	ActiveRouteID string                `json:"active_route_id"`
}

// Resolver owns the single live resolution session. It is safe for
// concurrent use: a new Resolve cancels and supersedes the previous one, and
// every continuation checks the session generation before touching shared
// state, so a slow superseded response can never overwrite a newer result.
type Resolver struct {
	directory *stations.Directory
	catalog   *indoor.Catalog
	gateway   directions.Gateway
	opts      Options

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
	sessionID  string
	routes     []models.WalkingRoute
	activeID   string
	drawnIDs   []string
}

// New creates a resolver over the given collaborators
func New(directory *stations.Directory, catalog *indoor.Catalog, gateway directions.Gateway, opts Options) *Resolver {
	return &Resolver{
		directory: directory,
		catalog:   catalog,
		gateway:   gateway,
		opts:      opts,
		state:     StateIdle,
	}
}

// State returns the current session state
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CurrentRoutes returns a copy of the last resolved route set
func (r *Resolver) CurrentRoutes() []models.WalkingRoute {
	r.mu.Lock()
	defer r.mu.Unlock()
	routes := make([]models.WalkingRoute, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// ActiveRouteID returns the currently active route id, or "" when idle
func (r *Resolver) ActiveRouteID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID
}

// FindRouteForStationName resolves a route by station name using the same
// fuzzy policy as the station directory lookup
func (r *Resolver) FindRouteForStationName(name string) (models.WalkingRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.routes))
	for i, route := range r.routes {
		names[i] = route.StationName
	}
	if idx := stations.MatchName(names, name); idx >= 0 {
		return r.routes[idx], nil
	}
	return models.WalkingRoute{}, ErrRouteNotFound
}

// Resolve cancels any in-flight resolution, removes its artifacts, and
// computes the route set for destination. A superseded call returns
// (nil, nil): its results are discarded silently, never as an error.
func (r *Resolver) Resolve(destination models.Coordinates, renderer RouteRenderer) (*ResolutionResult, error) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
	gen := r.generation
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.sessionID = uuid.NewString()[:8]
	sessionID := r.sessionID
	r.removeArtifactsLocked(renderer)
	r.routes = nil
	r.activeID = ""
	r.state = StateResolving
	r.mu.Unlock()

	log.Printf("[RESOLVER] Resolution started: session=%s dest=(%.4f,%.4f)", sessionID, destination.Lng, destination.Lat)

	routes, err := r.resolveRoutes(ctx, destination)

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.generation {
		// Superseded while in flight; a newer session owns the state now
		log.Printf("[RESOLVER] Resolution superseded: session=%s", sessionID)
		return nil, nil
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("[RESOLVER] Resolution cancelled: session=%s", sessionID)
			return nil, nil
		}
		log.Printf("[ERROR] Resolution failed: session=%s err=%v", sessionID, err)
		r.state = StateIdle
		return nil, err
	}

	r.routes = routes
	if len(routes) > 0 {
		r.activeID = routes[0].ID
	}
	r.state = StateResolved
	r.drawRoutesLocked(renderer, destination, gen)

	log.Printf("[RESOLVER] Resolution complete: session=%s routes=%d active=%s", sessionID, len(routes), r.activeID)

	result := &ResolutionResult{
		Routes:        make([]models.WalkingRoute, len(routes)),
		ActiveRouteID: r.activeID,
	}
	copy(result.Routes, routes)
	return result, nil
}

// Clear cancels in-flight work, removes all visual artifacts and returns the
// session to idle
func (r *Resolver) Clear(renderer RouteRenderer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
	r.removeArtifactsLocked(renderer)
	r.routes = nil
	r.activeID = ""
	r.state = StateIdle
	log.Printf("[RESOLVER] Session cleared")
}

// SwitchActive re-styles the route set so routeID becomes active. Works
// entirely from resolved data; no network calls.
func (r *Resolver) SwitchActive(routeID string, renderer RouteRenderer, destination models.Coordinates) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateResolved {
		return fmt.Errorf("cannot switch active route in state %q", r.state)
	}

	var target *models.WalkingRoute
	for i := range r.routes {
		if r.routes[i].ID == routeID {
			target = &r.routes[i]
			break
		}
	}
	if target == nil {
		return ErrRouteNotFound
	}
	if routeID == r.activeID {
		return nil
	}

	r.state = StateSwitching
	for i := range r.routes {
		route := &r.routes[i]
		renderer.StyleRoute(route.ID, geo.RouteColor(i), route.ID == routeID)
	}
	renderer.RaiseRoute(routeID)
	renderer.SetEndpointMarkers(routeID, target.ExitCoords, destination)
	r.activeID = routeID
	r.state = StateResolved

	log.Printf("[RESOLVER] Active route switched: route=%s station=%s", routeID, target.StationName)
	return nil
}

// removeArtifactsLocked removes all drawn paths and markers. Caller holds mu.
func (r *Resolver) removeArtifactsLocked(renderer RouteRenderer) {
	for _, id := range r.drawnIDs {
		renderer.RemoveRoute(id)
	}
	r.drawnIDs = nil
	renderer.ClearEndpointMarkers()
}

// drawRoutesLocked draws the resolved set: one path per route (muted unless
// active), click handlers that switch the active route, endpoint markers for
// the active route only, and a viewport framing all paths. Caller holds mu.
func (r *Resolver) drawRoutesLocked(renderer RouteRenderer, destination models.Coordinates, gen uint64) {
	var allPoints []models.Coordinates
	for i := range r.routes {
		route := r.routes[i]
		renderer.DrawRoute(route.ID, route.Geometry, geo.RouteColor(i), route.ID == r.activeID)
		renderer.OnRouteClick(route.ID, func(id string) {
			if err := r.SwitchActive(id, renderer, destination); err != nil {
				log.Printf("[RESOLVER] Switch on click ignored: route=%s err=%v", id, err)
			}
		})
		r.drawnIDs = append(r.drawnIDs, route.ID)
		allPoints = append(allPoints, route.Geometry...)
	}

	if r.activeID != "" {
		active := r.routes[0]
		// Marker creation is asynchronous in real map renderers; re-check
		// that this session is still current before attaching
		go func(gen uint64, routeID string, start models.Coordinates) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if gen != r.generation || r.activeID != routeID {
				return
			}
			renderer.SetEndpointMarkers(routeID, start, destination)
		}(gen, active.ID, active.ExitCoords)
	}

	if len(allPoints) > 0 {
		renderer.FitBounds(allPoints)
	}
}

// candidatePair is one (station, exit) routing unit in encounter order
type candidatePair struct {
	station models.Station
	exit    models.StationExit
}

// resolveRoutes runs the core algorithm: enumerate exits, settle all gateway
// and catalog lookups, score, filter, sort and assign ids
func (r *Resolver) resolveRoutes(ctx context.Context, destination models.Coordinates) ([]models.WalkingRoute, error) {
	near := r.directory.FindNear(destination, r.opts.SearchRadiusMeters)
	if len(near) == 0 {
		// Nothing within radius: empty result, and no gateway calls at all
		return nil, nil
	}

	var pairs []candidatePair
	for _, s := range near {
		for _, exit := range s.Exits {
			pairs = append(pairs, candidatePair{station: s, exit: exit})
		}
	}

	// Issue the matrix call and every per-pair lookup concurrently and let
	// them all settle; individual failures are handled after the join
	var wg sync.WaitGroup

	exitCoords := make([]models.Coordinates, len(pairs))
	for i, p := range pairs {
		exitCoords[i] = p.exit.Coords
	}
	var matrixRes *directions.MatrixResult
	var matrixErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		matrixRes, matrixErr = r.gateway.Matrix(ctx, destination, exitCoords)
	}()

	candidates := make([]models.RouteCandidate, len(pairs))
	pairErrs := make([]error, len(pairs))
	for i := range pairs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidates[i], pairErrs[i] = r.resolvePair(ctx, pairs[i], destination)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if matrixErr != nil {
		// Degrade gracefully: per-pair directions results stand on their own
		log.Printf("[RESOLVER] Matrix unavailable, using per-pair results: err=%v", matrixErr)
	} else if matrixRes != nil {
		// Matrix is the preferred distance/duration source for outdoor pairs
		for i := range candidates {
			if candidates[i].Failed || candidates[i].Indoor {
				continue
			}
			if i < len(matrixRes.Durations) && i < len(matrixRes.Distances) && matrixRes.Durations[i] > 0 {
				candidates[i].DurationSecs = matrixRes.Durations[i]
				candidates[i].DistanceMeters = matrixRes.Distances[i]
			}
		}
	}

	gatewayFailures := 0
	for i := range candidates {
		if candidates[i].Failed {
			gatewayFailures++
			log.Printf("[RESOLVER] Pair excluded: station=%s exit=%s err=%v",
				pairs[i].station.Name, pairs[i].exit.Name, pairErrs[i])
		}
	}

	routes := r.selectAndRank(near, pairs, candidates)

	if len(routes) == 0 && gatewayFailures > 0 && gatewayFailures == outdoorCount(candidates) {
		return nil, &ErrResolutionFailed{
			Reason: fmt.Sprintf("routing provider failed for all %d candidates", gatewayFailures),
		}
	}
	return routes, nil
}

func outdoorCount(candidates []models.RouteCandidate) int {
	n := 0
	for _, c := range candidates {
		if !c.Indoor {
			n++
		}
	}
	return n
}

// resolvePair resolves one (station, exit) pair: indoor catalog first, then
// the directions gateway. A gateway failure yields a failed candidate and the
// error; cancellation propagates as the context error.
func (r *Resolver) resolvePair(ctx context.Context, pair candidatePair, destination models.Coordinates) (models.RouteCandidate, error) {
	cand := models.RouteCandidate{
		StationName: pair.station.Name,
		Exit:        pair.exit,
	}

	matches := r.catalog.FindUsable(pair.exit.Coords, destination, r.opts.MaxDetourMeters)
	if len(matches) > 0 {
		// First catalog entry wins, even when a later match is shorter
		conn := matches[0]
		cand.Indoor = true
		cand.DistanceMeters = conn.DistanceMeters
		cand.DurationSecs = conn.DurationSecs
		cand.Geometry = geo.StraightLine(conn.FromCoords, conn.ToCoords)
		cand.IndoorFeatures = conn.Features
		cand.Instructions = conn.Instructions
		cand.Steps = []models.RouteStep{{
			Instruction:    conn.Instructions,
			DistanceMeters: conn.DistanceMeters,
			DurationSecs:   conn.DurationSecs,
			IsCrossing:     models.IsCrossingInstruction(conn.Instructions),
		}}
		return cand, nil
	}

	res, err := r.gateway.Directions(ctx, pair.exit.Coords, destination)
	if err != nil {
		cand.Failed = true
		return cand, err
	}

	cand.DistanceMeters = res.DistanceMeters
	cand.DurationSecs = res.DurationSecs
	cand.Geometry = res.Geometry
	cand.Steps = res.Steps
	return cand, nil
}

// selectAndRank picks the best exit per station, applies the reachability
// filter, sorts by duration and assigns stable ids
func (r *Resolver) selectAndRank(near []models.Station, pairs []candidatePair, candidates []models.RouteCandidate) []models.WalkingRoute {
	// Best candidate per station, ties broken by encounter order
	best := make(map[string]int)
	for i := range candidates {
		if candidates[i].Failed {
			continue
		}
		score := candidateScore(candidates[i], r.opts.IndoorScoreFactor)
		prev, ok := best[candidates[i].StationName]
		if !ok || score < candidateScore(candidates[prev], r.opts.IndoorScoreFactor) {
			best[candidates[i].StationName] = i
		}
	}

	var routes []models.WalkingRoute
	for _, s := range near {
		idx, ok := best[s.Name]
		if !ok {
			continue
		}
		cand := candidates[idx]
		// Reachability filter: zero duration means no valid result
		if cand.DurationSecs == 0 || cand.DurationSecs > r.opts.MaxWalkingSecs {
			continue
		}
		indoorPct := 0.0
		if cand.Indoor {
			indoorPct = 100
		}
		routes = append(routes, models.WalkingRoute{
			StationName:       s.Name,
			Lines:             s.Lines,
			Mode:              s.Mode,
			ExitName:          cand.Exit.Name,
			ExitDescription:   cand.Exit.Description,
			ExitCoords:        cand.Exit.Coords,
			DistanceMeters:    cand.DistanceMeters,
			DurationSecs:      cand.DurationSecs,
			FormattedDistance: models.FormatDistance(cand.DistanceMeters),
			FormattedDuration: models.FormatDuration(cand.DurationSecs),
			Geometry:          cand.Geometry,
			Steps:             cand.Steps,
			HasIndoorRoute:    cand.Indoor,
			IndoorPercentage:  indoorPct,
			IndoorFeatures:    cand.IndoorFeatures,
			Instructions:      cand.Instructions,
		})
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].DurationSecs < routes[j].DurationSecs
	})
	for i := range routes {
		routes[i].ID = fmt.Sprintf("walking-route-%d", i)
	}
	return routes
}

func candidateScore(c models.RouteCandidate, indoorFactor float64) float64 {
	if c.Indoor {
		return c.DurationSecs * indoorFactor
	}
	return c.DurationSecs
}
