package geo

// Geodesic helpers shared by the route generation pipeline.
// All angles are degrees at the API boundary, radians internally.

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used for all spherical math.
const EarthRadiusKm = 6371.0

// KmPerMile converts between the internal metric unit and caller-facing miles.
const KmPerMile = 1.609344

// A GeoPoint is a WGS84 coordinate pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// HaversineKm returns the great-circle distance between a and b in kilometers.
func HaversineKm(a, b GeoPoint) float64 {
	dLat := DegToRad(b.Lat - a.Lat)
	dLng := DegToRad(b.Lng - a.Lng)

	lat1 := DegToRad(a.Lat)
	lat2 := DegToRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// DestinationPoint projects origin along bearingDeg for distanceKm using the
// standard spherical formula. A zero distance returns the origin unchanged.
func DestinationPoint(origin GeoPoint, bearingDeg, distanceKm float64) GeoPoint {
	if distanceKm == 0 {
		return origin
	}

	lat1 := DegToRad(origin.Lat)
	lng1 := DegToRad(origin.Lng)
	bearing := DegToRad(bearingDeg)
	d := distanceKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) +
		math.Cos(lat1)*math.Sin(d)*math.Cos(bearing))
	lng2 := lng1 + math.Atan2(math.Sin(bearing)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	return GeoPoint{Lat: RadToDeg(lat2), Lng: RadToDeg(lng2)}
}

// BearingDeg returns the initial bearing from a to b in degrees, normalized to [0, 360).
func BearingDeg(a, b GeoPoint) float64 {
	lat1 := DegToRad(a.Lat)
	lat2 := DegToRad(b.Lat)
	dLng := DegToRad(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	return math.Mod(RadToDeg(math.Atan2(y, x))+360.0, 360.0)
}

// PathLengthKm sums the haversine distance over consecutive points.
func PathLengthKm(points []GeoPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1], points[i])
	}
	return total
}

// A BBox is an axis-aligned bounding box in degrees (south, west, north, east).
type BBox struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// BoundingBox computes the box containing all points, padded by padDeg on every side.
func BoundingBox(points []GeoPoint, padDeg float64) BBox {
	if len(points) == 0 {
		return BBox{}
	}

	box := BBox{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		box.MinLat = math.Min(box.MinLat, p.Lat)
		box.MaxLat = math.Max(box.MaxLat, p.Lat)
		box.MinLng = math.Min(box.MinLng, p.Lng)
		box.MaxLng = math.Max(box.MaxLng, p.Lng)
	}

	box.MinLat -= padDeg
	box.MaxLat += padDeg
	box.MinLng -= padDeg
	box.MaxLng += padDeg
	return box
}

func KmToMiles(km float64) float64 {
	return km / KmPerMile
}
