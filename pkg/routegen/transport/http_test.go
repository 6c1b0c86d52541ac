package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/StrideApp/RouteCraft/pkg/routegen/endpoints"
	"github.com/go-kit/kit/endpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoEndpoint() (endpoint.Endpoint, *endpoints.GenerationRequest) {
	var captured endpoints.GenerationRequest
	return func(_ context.Context, request interface{}) (interface{}, error) {
		captured = request.(endpoints.GenerationRequest)
		return endpoints.GenerationResponse{Routes: []endpoints.RouteJSON{}}, nil
	}, &captured
}

func TestHTTPHandlerDecodesQuery(t *testing.T) {
	ep, captured := echoEndpoint()
	handler := NewHTTPHandler(endpoints.Set{GenerateEndpoint: ep})

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL +
		"/api/routes/generate?lat=40.7128&lng=-74.006&distance_km=5&style=out_and_back&count=2&low_traffic=true")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body endpoints.GenerationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.InDelta(t, 40.7128, captured.Lat, 1e-9)
	assert.InDelta(t, -74.006, captured.Lng, 1e-9)
	assert.InDelta(t, 5.0, captured.DistanceKm, 1e-9)
	assert.Equal(t, "out_and_back", captured.Style)
	assert.Equal(t, 2, captured.Count)
	assert.True(t, captured.LowTraffic)
	assert.Nil(t, captured.EndLat)
}

func TestHTTPHandlerDecodesEndPoint(t *testing.T) {
	ep, captured := echoEndpoint()
	handler := NewHTTPHandler(endpoints.Set{GenerateEndpoint: ep})

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL +
		"/api/routes/generate?lat=40.7128&lng=-74.006&distance_km=5&end_lat=40.7484&end_lng=-73.9857")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, captured.EndLat)
	require.NotNil(t, captured.EndLng)
	assert.InDelta(t, 40.7484, *captured.EndLat, 1e-9)
	assert.InDelta(t, -73.9857, *captured.EndLng, 1e-9)
}

func TestHTTPHandlerRejectsMissingParams(t *testing.T) {
	ep, _ := echoEndpoint()
	handler := NewHTTPHandler(endpoints.Set{GenerateEndpoint: ep})

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/routes/generate?lat=40.7128")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
