package routegen

import (
	"context"

	"github.com/StrideApp/RouteCraft/internal/util/geo"
)

// GenerationParams is everything one generation call needs. End forces
// point-to-point routing when present, regardless of Style.
type GenerationParams struct {
	Center           geo.GeoPoint
	TargetDistanceKm float64
	Style            RouteStyle
	Count            int
	Prefs            RoutePreferences
	End              *geo.GeoPoint
}

// Service generates ranked running route candidates around a start point.
type Service interface {
	GenerateRoutes(ctx context.Context, params GenerationParams) ([]GeneratedRoute, error)
}
