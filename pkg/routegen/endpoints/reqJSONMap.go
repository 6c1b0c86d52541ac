package endpoints

import (
	"github.com/StrideApp/RouteCraft/internal/util/geo"
)

// A request to generate route candidates around a start point.
type GenerationRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`

	// Target distance in kilometers.
	DistanceKm float64 `json:"distance_km" validate:"gt=0,lte=100"`

	Style string `json:"style" validate:"omitempty,oneof=loop out_and_back point_to_point"`

	// How many ranked routes to return (default 1).
	Count int `json:"count" validate:"omitempty,gte=1,lte=3"`

	LowTraffic bool `json:"low_traffic"`

	// Optional end point; when present the route is point-to-point.
	EndLat *float64 `json:"end_lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	EndLng *float64 `json:"end_lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// One generated route as served over HTTP. Geometry ships both as raw points
// and as an encoded polyline so map SDK callers can pick either.
type RouteJSON struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Points           []geo.GeoPoint `json:"points"`
	Polyline         string         `json:"polyline"`
	DistanceKm       float64        `json:"distance_km"`
	DistanceMi       float64        `json:"distance_mi"`
	EstimatedTimeMin float64        `json:"estimated_time_min"`
	ElevationGainM   int            `json:"elevation_gain_m"`
	Terrain          string         `json:"terrain"`
	Difficulty       string         `json:"difficulty"`
}

// Result of a route generation
type GenerationResponse struct {
	Routes []RouteJSON `json:"routes"`

	Err string `json:"err,omitempty"`
}
