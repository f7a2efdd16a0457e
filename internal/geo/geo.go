// Package geo provides great-circle distance and route styling helpers.
package geo

import (
	"math"

	"station-walk-router/internal/models"
)

const earthRadiusMeters = 6371000

// Haversine returns the great-circle distance in meters between two points
func Haversine(a, b models.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// routeColors is the palette for drawn walking routes; assignment is
// deterministic so the same rank always gets the same color
var routeColors = []string{
	"#1a73e8", // blue
	"#e8710a", // orange
	"#188038", // green
	"#d93025", // red
	"#9334e6", // purple
	"#f9ab00", // amber
}

// RouteColor returns the color for a route at the given sorted index
func RouteColor(index int) string {
	if index < 0 {
		index = 0
	}
	return routeColors[index%len(routeColors)]
}

// StraightLine returns a degenerate two-point geometry between a and b,
// used for indoor connections where the provider has no path
func StraightLine(a, b models.Coordinates) []models.Coordinates {
	return []models.Coordinates{a, b}
}
