// Package stations holds the static station directory and its queries.
package stations

import (
	"errors"
	"log"
	"sort"
	"strings"

	"station-walk-router/internal/geo"
	"station-walk-router/internal/models"
)

// ErrNotFound is returned when no station matches a lookup
var ErrNotFound = errors.New("station not found")

// Directory is a read-only set of stations loaded once at startup
type Directory struct {
	stations []models.Station
}

// NewDirectory creates a directory over the given stations
func NewDirectory(stations []models.Station) *Directory {
	log.Printf("[STATIONS] Directory loaded: stations=%d", len(stations))
	return &Directory{stations: stations}
}

// All returns every station in directory order
func (d *Directory) All() []models.Station {
	return d.stations
}

// NearestExit returns the exit of s closest to point and its haversine
// distance in meters
func NearestExit(s models.Station, point models.Coordinates) (models.StationExit, float64) {
	var best models.StationExit
	bestDist := -1.0
	for _, exit := range s.Exits {
		dist := geo.Haversine(exit.Coords, point)
		if bestDist < 0 || dist < bestDist {
			best = exit
			bestDist = dist
		}
	}
	return best, bestDist
}

type rankedStation struct {
	station models.Station
	dist    float64
}

// rankByNearestExit ranks all stations by nearest-exit distance to point,
// stable in directory order for ties
func (d *Directory) rankByNearestExit(point models.Coordinates) []rankedStation {
	ranked := make([]rankedStation, 0, len(d.stations))
	for _, s := range d.stations {
		if len(s.Exits) == 0 {
			continue
		}
		_, dist := NearestExit(s, point)
		ranked = append(ranked, rankedStation{station: s, dist: dist})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].dist < ranked[j].dist
	})
	return ranked
}

// FindNear returns every station whose nearest exit lies within radiusMeters
// of point, sorted ascending by that nearest-exit distance
func (d *Directory) FindNear(point models.Coordinates, radiusMeters float64) []models.Station {
	var result []models.Station
	for _, r := range d.rankByNearestExit(point) {
		if r.dist <= radiusMeters {
			result = append(result, r.station)
		}
	}
	return result
}

// FindNearestN returns the n stations with the smallest nearest-exit
// distance to point, ties broken by directory order
func (d *Directory) FindNearestN(point models.Coordinates, n int) []models.Station {
	ranked := d.rankByNearestExit(point)
	if n > len(ranked) {
		n = len(ranked)
	}
	result := make([]models.Station, 0, n)
	for _, r := range ranked[:n] {
		result = append(result, r.station)
	}
	return result
}

// matchStrategy attempts to match a station against a lookup query
type matchStrategy func(stationName, query string) bool

// Lookup strategies, tried in order; first success wins. Best-effort: a
// substring query may match several stations, and the first one in
// directory order is returned without warning.
var matchStrategies = []matchStrategy{
	func(name, query string) bool {
		return strings.EqualFold(name, query)
	},
	func(name, query string) bool {
		lowerName := strings.ToLower(name)
		lowerQuery := strings.ToLower(query)
		return strings.Contains(lowerName, lowerQuery) ||
			strings.Contains(lowerQuery, lowerName)
	},
}

// Lookup resolves a station by name: exact case-insensitive match first,
// then case-insensitive substring in either direction. Returns ErrNotFound
// when nothing matches.
func (d *Directory) Lookup(name string) (models.Station, error) {
	names := make([]string, len(d.stations))
	for i, s := range d.stations {
		names[i] = s.Name
	}
	if idx := MatchName(names, name); idx >= 0 {
		return d.stations[idx], nil
	}
	return models.Station{}, ErrNotFound
}

// MatchName returns the index of the first name matching query under the
// ordered lookup strategies, or -1 when nothing matches. Shared with
// route-by-station-name lookups so both use the same policy.
func MatchName(names []string, query string) int {
	for _, match := range matchStrategies {
		for i, name := range names {
			if match(name, query) {
				return i
			}
		}
	}
	return -1
}
