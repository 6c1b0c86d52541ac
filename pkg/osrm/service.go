package osrm

import (
	"context"

	"github.com/StrideApp/RouteCraft/internal/util/geo"
)

// RouteResult is a road-snapped route as reported by the external router.
// Distance and duration come from the router, not from recomputation.
type RouteResult struct {
	Points      []geo.GeoPoint
	DistanceKm  float64
	DurationMin float64
}

// Service resolves a waypoint skeleton into real road-following geometry using
// a walking-profile routing engine. A nil result with an error means the
// caller should fall back to the raw skeleton.
type Service interface {
	Route(ctx context.Context, waypoints []geo.GeoPoint) (*RouteResult, error)
}
