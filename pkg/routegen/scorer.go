package routegen

import "math"

const (
	// trafficWeight is the scoring weight given to the quiet signal when the
	// runner asked for low-traffic routes.
	trafficWeight = 0.4

	// minDistanceWeight keeps distance fidelity from ever being zeroed out of
	// the score, no matter which preferences are active.
	minDistanceWeight = 0.2
)

// scoreCandidate folds the active quality signals into a single score in
// [0, 1]. The distance term is a triangular penalty: 1.0 at a perfect
// distance ratio, falling to 0 at a 50% deviation in either direction.
func scoreCandidate(distanceKm, targetKm float64, prefs RoutePreferences, quietScore float64) float64 {
	score := 0.0
	totalWeight := 0.0

	if prefs.LowTraffic {
		score += trafficWeight * quietScore
		totalWeight += trafficWeight
	}

	if targetKm > 0 {
		distanceWeight := 1.0 - totalWeight
		if distanceWeight < minDistanceWeight {
			distanceWeight = minDistanceWeight
		}

		distanceScore := math.Max(1-math.Abs(1-distanceKm/targetKm)*2, 0)
		score += distanceWeight * distanceScore
		totalWeight += distanceWeight
	}

	if totalWeight == 0 {
		return 0.5
	}
	return score / totalWeight
}
