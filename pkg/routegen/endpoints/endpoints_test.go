package endpoints

import (
	"context"
	"testing"

	"github.com/StrideApp/RouteCraft/internal/util/geo"
	"github.com/StrideApp/RouteCraft/pkg/routegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utilerrors "github.com/StrideApp/RouteCraft/internal/util/errors"
)

type stubService struct {
	got    routegen.GenerationParams
	routes []routegen.GeneratedRoute
}

func (s *stubService) GenerateRoutes(_ context.Context, params routegen.GenerationParams) ([]routegen.GeneratedRoute, error) {
	s.got = params
	return s.routes, nil
}

func validRequest() GenerationRequest {
	return GenerationRequest{
		Lat:        40.7128,
		Lng:        -74.0060,
		DistanceKm: 5.0,
		Style:      "loop",
	}
}

func TestGenerateEndpointMapsRequestAndResponse(t *testing.T) {
	svc := &stubService{routes: []routegen.GeneratedRoute{{
		ID:               "route-0-1-abc",
		Name:             "Morning Miles",
		Points:           []geo.GeoPoint{{Lat: 40.7128, Lng: -74.0060}, {Lat: 40.72, Lng: -74.0}},
		DistanceKm:       5.2,
		EstimatedTimeMin: 31.2,
		ElevationGainM:   22,
		Terrain:          "Loop",
		Difficulty:       "moderate",
	}}}

	ep := MakeGenerateEndpoint(svc)
	response, err := ep(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, svc.got.Count, "count defaults to 1")
	assert.Equal(t, routegen.StyleLoop, svc.got.Style)
	assert.Nil(t, svc.got.End)

	resp := response.(GenerationResponse)
	require.Len(t, resp.Routes, 1)

	route := resp.Routes[0]
	assert.Equal(t, "route-0-1-abc", route.ID)
	assert.NotEmpty(t, route.Polyline)
	assert.InDelta(t, 5.2/geo.KmPerMile, route.DistanceMi, 1e-9)
}

func TestGenerateEndpointPassesEndPoint(t *testing.T) {
	svc := &stubService{routes: []routegen.GeneratedRoute{{}}}
	ep := MakeGenerateEndpoint(svc)

	req := validRequest()
	endLat, endLng := 40.7484, -73.9857
	req.EndLat = &endLat
	req.EndLng = &endLng

	_, err := ep(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, svc.got.End)
	assert.Equal(t, geo.GeoPoint{Lat: endLat, Lng: endLng}, *svc.got.End)
}

func TestGenerateEndpointRejectsBadInput(t *testing.T) {
	svc := &stubService{}
	ep := MakeGenerateEndpoint(svc)

	cases := []struct {
		name   string
		mutate func(*GenerationRequest)
	}{
		{"latitude out of range", func(r *GenerationRequest) { r.Lat = 91 }},
		{"zero distance", func(r *GenerationRequest) { r.DistanceKm = 0 }},
		{"unknown style", func(r *GenerationRequest) { r.Style = "spiral" }},
		{"count too large", func(r *GenerationRequest) { r.Count = 4 }},
		{"end latitude without longitude", func(r *GenerationRequest) {
			v := 40.0
			r.EndLat = &v
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, err := ep(context.Background(), req)
			assert.ErrorIs(t, err, utilerrors.ErrInvalidArgument)
		})
	}
}
