package routegen

// Waypoint skeleton synthesis. All jitter is a deterministic trigonometric
// function of the variant and loop index: the same inputs always produce a
// byte-identical skeleton, which keeps generation reproducible and testable.

import (
	"math"

	"github.com/StrideApp/RouteCraft/internal/util/geo"
)

const (
	// defaultSnapBlend pulls a raw waypoint 70% of the way toward a nearby
	// green-space point without collapsing onto it.
	defaultSnapBlend = 0.7

	// turnaroundSnapBlend is the stronger pull on an out-and-back turnaround.
	turnaroundSnapBlend = 0.8

	loopSnapFraction         = 0.25
	pointToPointSnapFraction = 0.20

	outAndBackSegments      = 3
	pointToPointInnerPoints = 2
)

// jitter is the shared deterministic pseudo-random source: a sine over the
// variant and point index, scaled to [-amplitude, amplitude].
func jitter(variant, index int, phase, amplitude float64) float64 {
	return amplitude * math.Sin(float64(variant)*phase+float64(index)*(phase/2+1))
}

// selectWaypoint nudges raw toward the nearest green-space point. Beyond
// maxSnapKm the raw point is returned unchanged; otherwise the result is a
// weighted blend of the two.
func selectWaypoint(raw geo.GeoPoint, greenSpaces []geo.GeoPoint, maxSnapKm, blend float64) geo.GeoPoint {
	if len(greenSpaces) == 0 {
		return raw
	}

	nearest := greenSpaces[0]
	nearestDist := geo.HaversineKm(raw, nearest)
	for _, g := range greenSpaces[1:] {
		if d := geo.HaversineKm(raw, g); d < nearestDist {
			nearest, nearestDist = g, d
		}
	}

	if nearestDist > maxSnapKm {
		return raw
	}
	return geo.GeoPoint{
		Lat: blend*nearest.Lat + (1-blend)*raw.Lat,
		Lng: blend*nearest.Lng + (1-blend)*raw.Lng,
	}
}

// synthesizeLoop places 4+variant waypoints around a circle whose
// circumference approximates the target distance, starting at a
// variant-dependent bearing, and closes the sequence on the anchor.
func synthesizeLoop(anchor geo.GeoPoint, targetKm float64, prefs RoutePreferences, variant int, greenSpaces []geo.GeoPoint) []geo.GeoPoint {
	radiusKm := targetKm / (2 * math.Pi)
	waypoints := 4 + variant
	maxSnapKm := loopSnapFraction * targetKm

	startBearing := float64(variant) * 73.0
	bearingJitterDeg := 8.0
	if prefs.LowTraffic {
		// A wider bearing wobble lets waypoints drift off arterials and into
		// residential streets.
		startBearing += 45.0
		bearingJitterDeg = 20.0
	}

	points := make([]geo.GeoPoint, 0, waypoints+2)
	points = append(points, anchor)

	for i := 0; i < waypoints; i++ {
		bearing := startBearing + float64(i)*360.0/float64(waypoints)
		bearing += jitter(variant, i, 3.77, bearingJitterDeg)

		radius := radiusKm * (1 + jitter(variant, i, 7.13, 0.15))

		raw := geo.DestinationPoint(anchor, bearing, radius)
		points = append(points, selectWaypoint(raw, greenSpaces, maxSnapKm, defaultSnapBlend))
	}

	points = append(points, anchor)
	return points
}

// synthesizeOutAndBack walks three outbound legs away from the anchor, then
// retraces them with a small deterministic offset per returning point, so the
// return path roughly but not exactly mirrors the outbound one.
func synthesizeOutAndBack(anchor geo.GeoPoint, targetKm float64, prefs RoutePreferences, variant int, greenSpaces []geo.GeoPoint) []geo.GeoPoint {
	legKm := (targetKm / 2) / outAndBackSegments
	maxSnapKm := loopSnapFraction * targetKm

	baseBearing := float64(variant) * 73.0
	bearingJitterDeg := 8.0
	if prefs.LowTraffic {
		baseBearing += 45.0
		bearingJitterDeg = 20.0
	}

	outbound := make([]geo.GeoPoint, 0, outAndBackSegments+1)
	outbound = append(outbound, anchor)
	current := anchor

	for i := 0; i < outAndBackSegments; i++ {
		bearing := baseBearing + jitter(variant, i, 3.77, bearingJitterDeg)
		leg := legKm * (1 + jitter(variant, i, 7.13, 0.10))

		raw := geo.DestinationPoint(current, bearing, leg)

		blend := defaultSnapBlend
		if i == outAndBackSegments-1 {
			blend = turnaroundSnapBlend
		}
		current = selectWaypoint(raw, greenSpaces, maxSnapKm, blend)
		outbound = append(outbound, current)
	}

	points := make([]geo.GeoPoint, 0, 2*outAndBackSegments+2)
	points = append(points, outbound...)

	// Return leg: outbound points in reverse, each shifted ~30 m sideways.
	for i := len(outbound) - 2; i >= 1; i-- {
		offsetBearing := baseBearing + 90 + jitter(variant, i, 1.31, 15.0)
		points = append(points, geo.DestinationPoint(outbound[i], offsetBearing, 0.03))
	}

	points = append(points, anchor)
	return points
}

// synthesizePointToPoint interpolates two waypoints between start and end,
// bowing each perpendicular to the straight line so the route does not run
// dead straight, then snapping toward green space.
func synthesizePointToPoint(start, end geo.GeoPoint, prefs RoutePreferences, variant int, greenSpaces []geo.GeoPoint) []geo.GeoPoint {
	directKm := geo.HaversineKm(start, end)
	maxSnapKm := pointToPointSnapFraction * directKm
	perpBearing := geo.BearingDeg(start, end) + 90

	points := make([]geo.GeoPoint, 0, pointToPointInnerPoints+2)
	points = append(points, start)

	for i := 1; i <= pointToPointInnerPoints; i++ {
		t := float64(i) / float64(pointToPointInnerPoints+1)
		base := geo.GeoPoint{
			Lat: start.Lat + t*(end.Lat-start.Lat),
			Lng: start.Lng + t*(end.Lng-start.Lng),
		}

		// Sinusoidal bow: zero at the endpoints, strongest midway, with a
		// variant-dependent sign and magnitude.
		amplitude := 0.1 * directKm * math.Sin(math.Pi*t)
		offset := amplitude * math.Sin(float64(variant)*2.39+float64(i)*1.57)

		raw := geo.DestinationPoint(base, perpBearing, offset)
		points = append(points, selectWaypoint(raw, greenSpaces, maxSnapKm, defaultSnapBlend))
	}

	points = append(points, end)
	return points
}
