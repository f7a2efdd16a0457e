package testutil

import (
	"sync"

	"station-walk-router/internal/models"
)

// RendererEvent is one recorded renderer invocation
type RendererEvent struct {
	Op      string
	RouteID string
	Active  bool
	Color   string
}

// RecordingRenderer records every renderer call so tests can assert on the
// visual side effects of a resolution without a real map
type RecordingRenderer struct {
	mu            sync.Mutex
	Events        []RendererEvent
	Drawn         map[string]bool
	MarkerRouteID string
	HasMarkers    bool
	ClickHandlers map[string]func(string)
}

// NewRecordingRenderer creates an empty recording renderer
func NewRecordingRenderer() *RecordingRenderer {
	return &RecordingRenderer{
		Drawn:         make(map[string]bool),
		ClickHandlers: make(map[string]func(string)),
	}
}

func (r *RecordingRenderer) record(e RendererEvent) {
	r.Events = append(r.Events, e)
}

func (r *RecordingRenderer) DrawRoute(routeID string, geometry []models.Coordinates, color string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Drawn[routeID] = true
	r.record(RendererEvent{Op: "draw", RouteID: routeID, Active: active, Color: color})
}

func (r *RecordingRenderer) StyleRoute(routeID string, color string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(RendererEvent{Op: "style", RouteID: routeID, Active: active, Color: color})
}

func (r *RecordingRenderer) RaiseRoute(routeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(RendererEvent{Op: "raise", RouteID: routeID})
}

func (r *RecordingRenderer) RemoveRoute(routeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Drawn, routeID)
	r.record(RendererEvent{Op: "remove", RouteID: routeID})
}

func (r *RecordingRenderer) SetEndpointMarkers(routeID string, start, end models.Coordinates) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MarkerRouteID = routeID
	r.HasMarkers = true
	r.record(RendererEvent{Op: "markers", RouteID: routeID})
}

func (r *RecordingRenderer) ClearEndpointMarkers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MarkerRouteID = ""
	r.HasMarkers = false
	r.record(RendererEvent{Op: "clear_markers"})
}

func (r *RecordingRenderer) FitBounds(points []models.Coordinates) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(RendererEvent{Op: "fit_bounds"})
}

func (r *RecordingRenderer) OnRouteClick(routeID string, handler func(string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ClickHandlers[routeID] = handler
}

// Click simulates a user clicking a drawn route
func (r *RecordingRenderer) Click(routeID string) {
	r.mu.Lock()
	handler := r.ClickHandlers[routeID]
	r.mu.Unlock()
	if handler != nil {
		handler(routeID)
	}
}

// DrawnRouteIDs returns the ids of currently drawn routes
func (r *RecordingRenderer) DrawnRouteIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id := range r.Drawn {
		ids = append(ids, id)
	}
	return ids
}

// MarkersFor reports whether endpoint markers are currently attached for the
// given route
func (r *RecordingRenderer) MarkersFor(routeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.HasMarkers && r.MarkerRouteID == routeID
}
