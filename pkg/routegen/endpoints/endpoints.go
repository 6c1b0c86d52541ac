package endpoints

import (
	"context"
	"fmt"

	"github.com/StrideApp/RouteCraft/internal/util/errors"
	"github.com/StrideApp/RouteCraft/internal/util/geo"
	"github.com/StrideApp/RouteCraft/pkg/routegen"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-playground/validator/v10"
	"github.com/twpayne/go-polyline"
)

type Set struct {
	GenerateEndpoint endpoint.Endpoint
}

func NewEndpointSet(svc routegen.Service) Set {
	return Set{
		GenerateEndpoint: MakeGenerateEndpoint(svc),
	}
}

var validate = validator.New()

func MakeGenerateEndpoint(svc routegen.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(GenerationRequest)

		if err := validate.Struct(req); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
		}
		if (req.EndLat == nil) != (req.EndLng == nil) {
			return nil, fmt.Errorf("%w: end_lat and end_lng must be supplied together",
				errors.ErrInvalidArgument)
		}

		style, err := routegen.ParseRouteStyle(req.Style)
		if err != nil {
			return nil, err
		}

		count := req.Count
		if count == 0 {
			count = 1
		}

		params := routegen.GenerationParams{
			Center:           geo.GeoPoint{Lat: req.Lat, Lng: req.Lng},
			TargetDistanceKm: req.DistanceKm,
			Style:            style,
			Count:            count,
			Prefs:            routegen.RoutePreferences{LowTraffic: req.LowTraffic},
		}
		if req.EndLat != nil {
			params.End = &geo.GeoPoint{Lat: *req.EndLat, Lng: *req.EndLng}
		}

		routes, err := svc.GenerateRoutes(ctx, params)
		if err != nil {
			return nil, err
		}
		return makeGenerationResponse(routes), nil
	}
}

func makeGenerationResponse(routes []routegen.GeneratedRoute) GenerationResponse {
	out := make([]RouteJSON, len(routes))
	for i, route := range routes {
		coords := make([][]float64, len(route.Points))
		for j, p := range route.Points {
			coords[j] = []float64{p.Lat, p.Lng}
		}

		out[i] = RouteJSON{
			ID:               route.ID,
			Name:             route.Name,
			Points:           route.Points,
			Polyline:         string(polyline.EncodeCoords(coords)),
			DistanceKm:       route.DistanceKm,
			DistanceMi:       geo.KmToMiles(route.DistanceKm),
			EstimatedTimeMin: route.EstimatedTimeMin,
			ElevationGainM:   route.ElevationGainM,
			Terrain:          route.Terrain,
			Difficulty:       route.Difficulty,
		}
	}
	return GenerationResponse{Routes: out}
}
