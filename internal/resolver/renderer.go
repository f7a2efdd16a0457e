package resolver

import "station-walk-router/internal/models"

// RouteRenderer is what the resolver needs from a map-rendering collaborator.
// The resolver stays ignorant of the rendering technology; headless callers
// pass NopRenderer.
type RouteRenderer interface {
	// DrawRoute draws one route path; active routes get emphasized styling,
	// the rest are muted
	DrawRoute(routeID string, geometry []models.Coordinates, color string, active bool)
	// StyleRoute re-styles an already drawn route without redrawing it
	StyleRoute(routeID string, color string, active bool)
	// RaiseRoute moves a route's visual layer above the muted ones
	RaiseRoute(routeID string)
	// RemoveRoute removes a drawn route path
	RemoveRoute(routeID string)
	// SetEndpointMarkers places start/end markers for the active route,
	// replacing any previous markers
	SetEndpointMarkers(routeID string, start, end models.Coordinates)
	// ClearEndpointMarkers removes all endpoint markers
	ClearEndpointMarkers()
	// FitBounds frames the viewport to contain all the given points
	FitBounds(points []models.Coordinates)
	// OnRouteClick registers a click handler for a drawn route; the renderer
	// invokes it with the route id when the user clicks the path
	OnRouteClick(routeID string, handler func(routeID string))
}

// NopRenderer is a RouteRenderer that does nothing
type NopRenderer struct{}

func (NopRenderer) DrawRoute(string, []models.Coordinates, string, bool) {}
func (NopRenderer) StyleRoute(string, string, bool)                      {}
func (NopRenderer) RaiseRoute(string)                                    {}
func (NopRenderer) RemoveRoute(string)                                   {}
func (NopRenderer) SetEndpointMarkers(string, models.Coordinates, models.Coordinates) {
}
func (NopRenderer) ClearEndpointMarkers()               {}
func (NopRenderer) FitBounds([]models.Coordinates)      {}
func (NopRenderer) OnRouteClick(string, func(routeID string)) {}
