package models

import (
	"fmt"
	"math"
	"strings"
)

// Coordinates represents a geographic point
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// RoundCoordinate rounds a coordinate to 5 decimal places (~1m precision),
// used for cache keys and same-point checks
func RoundCoordinate(v float64) float64 {
	return math.Round(v*100000) / 100000
}

// SamePoint reports whether two coordinates round to the same cache-key point
func SamePoint(a, b Coordinates) bool {
	return RoundCoordinate(a.Lat) == RoundCoordinate(b.Lat) &&
		RoundCoordinate(a.Lng) == RoundCoordinate(b.Lng)
}

// StationExit is a named street-level or indoor access point of a station
type StationExit struct {
	Name        string      `json:"name"`
	Coords      Coordinates `json:"coords"`
	Description string      `json:"description,omitempty"`
}

// Station is an immutable transit station with one or more exits.
// The directory loads stations once at startup; they are never mutated.
type Station struct {
	Name  string        `json:"name"`
	Mode  string        `json:"mode"`
	Lines []string      `json:"lines"`
	Exits []StationExit `json:"exits"`
}

// Indoor connection categories
const (
	CategoryMall           = "mall"
	CategoryUnderground    = "underground"
	CategorySkybridge      = "skybridge"
	CategoryCoveredWalkway = "covered_walkway"
)

// IndoorConnection is a curated indoor-walkway edge between two named points
// that off-the-shelf routing providers do not model
type IndoorConnection struct {
	Name           string      `json:"name"`
	From           string      `json:"from"`
	To             string      `json:"to"`
	FromCoords     Coordinates `json:"from_coords"`
	ToCoords       Coordinates `json:"to_coords"`
	DistanceMeters float64     `json:"distance_meters"`
	DurationSecs   float64     `json:"duration_secs"`
	Category       string      `json:"category"`
	Features       []string    `json:"features,omitempty"`
	Instructions   string      `json:"instructions,omitempty"`
	Bidirectional  bool        `json:"bidirectional"`
}

// RouteStep is a single turn-by-turn instruction
type RouteStep struct {
	Instruction    string  `json:"instruction"`
	DistanceMeters float64 `json:"distance_meters"`
	DurationSecs   float64 `json:"duration_secs"`
	IsCrossing     bool    `json:"is_crossing"`
}

// IsCrossingInstruction reports whether an instruction describes a road
// crossing. Substring heuristic, not a verified crosswalk detector.
func IsCrossingInstruction(instruction string) bool {
	return strings.Contains(strings.ToLower(instruction), "cross")
}

// RouteCandidate is one (station exit -> destination) pairing with a resolved
// route. Transient: created per resolution request and discarded when a newer
// request supersedes it.
type RouteCandidate struct {
	StationName    string        `json:"station_name"`
	Exit           StationExit   `json:"exit"`
	DistanceMeters float64       `json:"distance_meters"`
	DurationSecs   float64       `json:"duration_secs"`
	Geometry       []Coordinates `json:"geometry"`
	Steps          []RouteStep   `json:"steps"`
	Indoor         bool          `json:"indoor"`
	IndoorFeatures []string      `json:"indoor_features,omitempty"`
	Instructions   string        `json:"instructions,omitempty"`
	Failed         bool          `json:"-"`
}

// WalkingRoute is the winning exit for one station in a resolved set
type WalkingRoute struct {
	ID                string        `json:"id"`
	StationName       string        `json:"station_name"`
	Lines             []string      `json:"lines"`
	Mode              string        `json:"mode"`
	ExitName          string        `json:"exit_name"`
	ExitDescription   string        `json:"exit_description,omitempty"`
	ExitCoords        Coordinates   `json:"exit_coords"`
	DistanceMeters    float64       `json:"distance_meters"`
	DurationSecs      float64       `json:"duration_secs"`
	FormattedDistance string        `json:"formatted_distance"`
	FormattedDuration string        `json:"formatted_duration"`
	Geometry          []Coordinates `json:"geometry"`
	Steps             []RouteStep   `json:"steps"`
	HasIndoorRoute    bool          `json:"has_indoor_route"`
	IndoorPercentage  float64       `json:"indoor_percentage"`
	IndoorFeatures    []string      `json:"indoor_features,omitempty"`
	Instructions      string        `json:"instructions,omitempty"`
}

// FormatDistance renders meters as "850 m" or "1.2 km"
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as "5 min" or "1 hr 5 min"
func FormatDuration(secs float64) string {
	mins := int(math.Round(secs / 60))
	if mins < 1 {
		mins = 1
	}
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	hrs := mins / 60
	rem := mins % 60
	if rem == 0 {
		return fmt.Sprintf("%d hr", hrs)
	}
	return fmt.Sprintf("%d hr %d min", hrs, rem)
}

// DistanceCacheEntry represents a cached distance/duration lookup
type DistanceCacheEntry struct {
	Origin         Coordinates `json:"origin"`
	Destination    Coordinates `json:"destination"`
	DistanceMeters float64     `json:"distance_meters"`
	DurationSecs   float64     `json:"duration_secs"`
}
