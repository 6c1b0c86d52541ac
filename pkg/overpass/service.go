package overpass

import (
	"context"

	"github.com/StrideApp/RouteCraft/internal/util/geo"
)

// Service queries OpenStreetMap feature data used to enrich route candidates.
//
// Both operations degrade instead of failing: QuietScore answers a neutral 0.5
// and GreenSpaces answers an empty slice whenever the upstream call times out,
// errors, or returns nothing usable. Callers must treat those values as "no
// signal available", never as an error.
type Service interface {
	// QuietScore returns the fraction of road segments around the given
	// geometry that are low-traffic (residential, paths, footways) versus
	// major roads, in [0, 1].
	QuietScore(ctx context.Context, points []geo.GeoPoint) float64

	// GreenSpaces returns up to 15 park, garden, and car-light way locations
	// within radiusKm of center, deduplicated and ordered so that named and
	// park features come before unnamed paths.
	GreenSpaces(ctx context.Context, center geo.GeoPoint, radiusKm float64) []geo.GeoPoint
}
