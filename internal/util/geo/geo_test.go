package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKnownDistances(t *testing.T) {
	nyc := GeoPoint{Lat: 40.7128, Lng: -74.0060}
	la := GeoPoint{Lat: 34.0522, Lng: -118.2437}

	// NYC to LA is roughly 3936 km great-circle.
	assert.InDelta(t, 3936, HaversineKm(nyc, la), 10)

	// Distance is symmetric and zero to itself.
	assert.Equal(t, HaversineKm(nyc, la), HaversineKm(la, nyc))
	assert.Equal(t, 0.0, HaversineKm(nyc, nyc))
}

func TestDestinationPointRoundTrip(t *testing.T) {
	origin := GeoPoint{Lat: 40.7128, Lng: -74.0060}

	for _, bearing := range []float64{0, 45, 90, 135, 180, 270, 359} {
		dest := DestinationPoint(origin, bearing, 2.5)
		assert.InDelta(t, 2.5, HaversineKm(origin, dest), 0.001,
			"bearing %v should land 2.5 km away", bearing)
	}
}

func TestDestinationPointDueNorth(t *testing.T) {
	origin := GeoPoint{Lat: 40.0, Lng: -74.0}
	dest := DestinationPoint(origin, 0, 10)

	assert.Greater(t, dest.Lat, origin.Lat)
	assert.InDelta(t, origin.Lng, dest.Lng, 1e-9)
}

func TestDestinationPointZeroDistance(t *testing.T) {
	origin := GeoPoint{Lat: 51.5, Lng: -0.12}
	assert.Equal(t, origin, DestinationPoint(origin, 123, 0))
}

func TestBearingDeg(t *testing.T) {
	a := GeoPoint{Lat: 40.0, Lng: -74.0}

	assert.InDelta(t, 0, BearingDeg(a, GeoPoint{Lat: 41.0, Lng: -74.0}), 0.1)
	assert.InDelta(t, 180, BearingDeg(a, GeoPoint{Lat: 39.0, Lng: -74.0}), 0.1)
	assert.InDelta(t, 90, BearingDeg(a, GeoPoint{Lat: 40.0, Lng: -73.0}), 1)
}

func TestPathLengthKm(t *testing.T) {
	a := GeoPoint{Lat: 40.0, Lng: -74.0}
	b := DestinationPoint(a, 90, 1)
	c := DestinationPoint(b, 90, 2)

	assert.InDelta(t, 3, PathLengthKm([]GeoPoint{a, b, c}), 0.01)
	assert.Equal(t, 0.0, PathLengthKm([]GeoPoint{a}))
	assert.Equal(t, 0.0, PathLengthKm(nil))
}

func TestBoundingBox(t *testing.T) {
	points := []GeoPoint{
		{Lat: 40.0, Lng: -74.0},
		{Lat: 40.2, Lng: -74.3},
		{Lat: 39.9, Lng: -73.8},
	}

	box := BoundingBox(points, 0.002)
	assert.InDelta(t, 39.898, box.MinLat, 1e-9)
	assert.InDelta(t, 40.202, box.MaxLat, 1e-9)
	assert.InDelta(t, -74.302, box.MinLng, 1e-9)
	assert.InDelta(t, -73.798, box.MaxLng, 1e-9)

	assert.Equal(t, BBox{}, BoundingBox(nil, 0.002))
}
