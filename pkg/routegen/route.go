package routegen

import (
	"fmt"
	"math"

	"github.com/StrideApp/RouteCraft/internal/util/errors"
	"github.com/StrideApp/RouteCraft/internal/util/geo"
)

// RouteStyle is the topological shape of a generated route.
type RouteStyle int

const (
	StyleLoop RouteStyle = iota
	StyleOutAndBack
	StylePointToPoint
)

// ParseRouteStyle maps the wire representation of a style to its enum value.
func ParseRouteStyle(s string) (RouteStyle, error) {
	switch s {
	case "loop", "":
		return StyleLoop, nil
	case "out_and_back":
		return StyleOutAndBack, nil
	case "point_to_point":
		return StylePointToPoint, nil
	}
	return StyleLoop, fmt.Errorf("%w: unknown route style %q", errors.ErrInvalidArgument, s)
}

// Terrain is the user-facing label for the style.
func (s RouteStyle) Terrain() string {
	switch s {
	case StyleOutAndBack:
		return "Out & Back"
	case StylePointToPoint:
		return "Point to Point"
	default:
		return "Loop"
	}
}

// RoutePreferences are the soft constraints a runner can set. Passed by value
// into every pipeline stage and never mutated mid-pipeline.
type RoutePreferences struct {
	LowTraffic bool `json:"low_traffic"`
}

// A ResolvedCandidate is one skeleton turned into concrete geometry, either by
// the external router or by the raw-skeleton fallback. DistanceKm always
// describes Points: it is the router's reported distance when
// FromExternalRouter is true and the cumulative haversine sum otherwise.
type ResolvedCandidate struct {
	Index              int
	Variant            int
	Points             []geo.GeoPoint
	DistanceKm         float64
	EstimatedTimeMin   float64
	FromExternalRouter bool
}

// A ScoredCandidate pairs a resolved candidate with its quality signals.
type ScoredCandidate struct {
	Candidate  ResolvedCandidate
	QuietScore float64
	Score      float64
}

// A GeneratedRoute is the externally visible result of one generation call.
// The caller owns it from then on; this package never mutates it afterwards.
type GeneratedRoute struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Points           []geo.GeoPoint `json:"points"`
	DistanceKm       float64        `json:"distance_km"`
	EstimatedTimeMin float64        `json:"estimated_time_min"`
	ElevationGainM   int            `json:"elevation_gain_m"`
	Terrain          string         `json:"terrain"`
	Difficulty       string         `json:"difficulty"`
}

// difficultyForDistance grades a route purely by its length.
func difficultyForDistance(distanceKm float64) string {
	switch {
	case distanceKm < 5:
		return "easy"
	case distanceKm < 10:
		return "moderate"
	default:
		return "hard"
	}
}

// Display name pools. The pick is deterministic per start location and
// candidate index, so rerunning in the same place tends to reuse names while
// candidates within one call still diversify.
var quietRouteNames = []string{
	"Quiet Streets Run",
	"Backstreet Breather",
	"Calm Corner Circuit",
	"Residential Ramble",
	"Sidestreet Escape",
}

var defaultRouteNames = []string{
	"Morning Miles",
	"Neighborhood Explorer",
	"Runner's Choice",
	"City Pulse Route",
	"Daily Stride",
}

func pickRouteName(prefs RoutePreferences, candidateIndex int, startLat float64) string {
	pool := defaultRouteNames
	if prefs.LowTraffic {
		pool = quietRouteNames
	}
	idx := (candidateIndex + int(math.Floor(startLat*10))) % len(pool)
	if idx < 0 {
		idx += len(pool)
	}
	return pool[idx]
}
