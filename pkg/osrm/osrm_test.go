package osrm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/StrideApp/RouteCraft/internal/util/geo"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWaypoints = []geo.GeoPoint{
	{Lat: 40.7128, Lng: -74.0060},
	{Lat: 40.7200, Lng: -74.0000},
	{Lat: 40.7128, Lng: -74.0060},
}

const okBody = `{
	"code": "Ok",
	"routes": [{
		"geometry": {"coordinates": [[-74.0060, 40.7128], [-74.0030, 40.7160], [-74.0060, 40.7128]]},
		"distance": 5200,
		"duration": 1860
	}]
}`

func newTestService(url string, retries int) Service {
	return NewService(url, 2*time.Second, retries, time.Millisecond, log.NewNopLogger())
}

func TestRouteSuccess(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	result, err := newTestService(server.URL, 2).Route(context.Background(), testWaypoints)
	require.NoError(t, err)

	// Coordinates go out longitude-first and come back as lat/lng points.
	assert.True(t, strings.HasPrefix(gotPath, "/-74.006000,40.712800;"))
	require.Len(t, result.Points, 3)
	assert.Equal(t, geo.GeoPoint{Lat: 40.7128, Lng: -74.0060}, result.Points[0])
	assert.InDelta(t, 5.2, result.DistanceKm, 1e-9)
	assert.InDelta(t, 31.0, result.DurationMin, 1e-9)
}

func TestRouteRetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	result, err := newTestService(server.URL, 2).Route(context.Background(), testWaypoints)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.InDelta(t, 5.2, result.DistanceKm, 1e-9)
}

func TestRouteGivesUpAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	result, err := newTestService(server.URL, 2).Route(context.Background(), testWaypoints)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRouteDoesNotRetryClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	result, err := newTestService(server.URL, 2).Route(context.Background(), testWaypoints)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRouteRejectsNonOkCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer server.Close()

	result, err := newTestService(server.URL, 2).Route(context.Background(), testWaypoints)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestRouteRejectsTooFewWaypoints(t *testing.T) {
	_, err := newTestService("http://localhost:0", 0).Route(context.Background(), testWaypoints[:1])
	assert.Error(t, err)
}
