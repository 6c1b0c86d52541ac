package overpass

// Feature query client implementation against an Overpass-compatible API.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/StrideApp/RouteCraft/internal/util/geo"
	"github.com/bgadrian/data-structures/priorityqueue"
	"github.com/go-kit/log"
	"golang.org/x/time/rate"
)

// NeutralQuietScore is returned whenever no traffic signal can be computed.
// A neutral default keeps a single failed enrichment from sinking an
// otherwise good candidate in the ranking.
const NeutralQuietScore = 0.5

const (
	// quietScorePadDeg pads the candidate bounding box by roughly 200 m.
	quietScorePadDeg = 0.002

	// dedupThresholdKm suppresses green-space points within 50 m of a kept one.
	dedupThresholdKm = 0.05

	// maxGreenSpaces caps the green-space result size.
	maxGreenSpaces = 15

	// maxDistancePriority bounds the heap priorities used when ordering
	// tier-2 points, in meters from the search center.
	maxDistancePriority = 100000
)

var majorHighways = map[string]bool{
	"primary": true, "primary_link": true,
	"secondary": true, "secondary_link": true,
	"trunk": true, "trunk_link": true,
}

var quietHighways = map[string]bool{
	"residential": true, "living_street": true,
	"path": true, "footway": true, "cycleway": true, "pedestrian": true,
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type overpassElement struct {
	Type   string          `json:"type"`
	ID     int64           `json:"id"`
	Lat    float64         `json:"lat,omitempty"`
	Lon    float64         `json:"lon,omitempty"`
	Center *overpassCenter `json:"center,omitempty"`
	Tags   struct {
		Highway string `json:"highway,omitempty"`
		Leisure string `json:"leisure,omitempty"`
		Name    string `json:"name,omitempty"`
	} `json:"tags,omitempty"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type featureService struct {
	apiURL  string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  log.Logger

	// Caches are keyed by rounded geography (3 decimal degrees, ~111 m) so
	// sibling candidates in one generation call collapse to one round trip.
	// Entries are never evicted; acceptable for a session-scoped process.
	mu         sync.Mutex
	quietCache map[string]float64
	greenCache map[string][]geo.GeoPoint
}

// NewService builds a feature query client with its own isolated caches.
// limiter may be nil to disable rate limiting (tests).
func NewService(apiURL string, timeout time.Duration, limiter *rate.Limiter, logger log.Logger) Service {
	return &featureService{
		apiURL:     apiURL,
		client:     &http.Client{},
		timeout:    timeout,
		limiter:    limiter,
		logger:     logger,
		quietCache: make(map[string]float64),
		greenCache: make(map[string][]geo.GeoPoint),
	}
}

func (s *featureService) QuietScore(ctx context.Context, points []geo.GeoPoint) float64 {
	if len(points) < 2 {
		return NeutralQuietScore
	}

	box := geo.BoundingBox(points, quietScorePadDeg)
	key := fmt.Sprintf("%.3f,%.3f,%.3f,%.3f", box.MinLat, box.MinLng, box.MaxLat, box.MaxLng)

	s.mu.Lock()
	if score, ok := s.quietCache[key]; ok {
		s.mu.Unlock()
		return score
	}
	s.mu.Unlock()

	query := fmt.Sprintf("[out:json][timeout:5];(way[highway](%f,%f,%f,%f););out tags;",
		box.MinLat, box.MinLng, box.MaxLat, box.MaxLng)

	response, err := s.query(ctx, query)
	if err != nil {
		s.logger.Log("during", "QuietScore", "err", err)
		return NeutralQuietScore
	}

	quiet, major := 0, 0
	for _, element := range response.Elements {
		switch {
		case quietHighways[element.Tags.Highway]:
			quiet++
		case majorHighways[element.Tags.Highway]:
			major++
		}
	}
	if quiet+major == 0 {
		return NeutralQuietScore
	}

	score := float64(quiet) / float64(quiet+major)
	s.mu.Lock()
	s.quietCache[key] = score
	s.mu.Unlock()
	return score
}

func (s *featureService) GreenSpaces(ctx context.Context, center geo.GeoPoint, radiusKm float64) []geo.GeoPoint {
	key := fmt.Sprintf("%.3f,%.3f,%.1f", center.Lat, center.Lng, radiusKm)

	s.mu.Lock()
	if cached, ok := s.greenCache[key]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	radiusM := radiusKm * 1000
	around := fmt.Sprintf("around:%f,%f,%f", radiusM, center.Lat, center.Lng)
	query := fmt.Sprintf(`[out:json][timeout:5];(`+
		`node[leisure~"^(park|garden|nature_reserve)$"](%s);`+
		`way[leisure~"^(park|garden|nature_reserve)$"](%s);`+
		`way[highway~"^(cycleway|footway|path|pedestrian|track)$"](%s););out center;`,
		around, around, around)

	response, err := s.query(ctx, query)
	if err != nil {
		s.logger.Log("during", "GreenSpaces", "err", err)
		return []geo.GeoPoint{}
	}

	result := classifyGreenSpaces(response.Elements, center)
	s.mu.Lock()
	s.greenCache[key] = result
	s.mu.Unlock()
	return result
}

// classifyGreenSpaces splits elements into tier 1 (park/garden/reserve or
// named ways) and tier 2 (everything else, typically unnamed paths), dedups
// each tier, and fills the result with tier 1 first, then the nearest tier 2
// points up to the cap.
func classifyGreenSpaces(elements []overpassElement, center geo.GeoPoint) []geo.GeoPoint {
	tier1 := []geo.GeoPoint{}
	tier2 := []geo.GeoPoint{}

	for _, element := range elements {
		point, ok := elementPoint(element)
		if !ok {
			continue
		}
		if element.Tags.Leisure != "" || element.Tags.Name != "" {
			tier1 = append(tier1, point)
		} else {
			tier2 = append(tier2, point)
		}
	}

	tier1 = dedupNearby(tier1, dedupThresholdKm)
	tier2 = dedupNearby(tier2, dedupThresholdKm)
	tier2 = nearestFirst(tier2, center)

	result := tier1
	for _, p := range tier2 {
		if len(result) >= maxGreenSpaces {
			break
		}
		result = append(result, p)
	}
	return result
}

func elementPoint(element overpassElement) (geo.GeoPoint, bool) {
	if element.Type == "node" && (element.Lat != 0 || element.Lon != 0) {
		return geo.GeoPoint{Lat: element.Lat, Lng: element.Lon}, true
	}
	if element.Center != nil {
		return geo.GeoPoint{Lat: element.Center.Lat, Lng: element.Center.Lon}, true
	}
	return geo.GeoPoint{}, false
}

// dedupNearby keeps a point only if no already-kept point lies within
// thresholdKm of it. Greedy and order-preserving, so running it over its own
// output is a no-op.
func dedupNearby(points []geo.GeoPoint, thresholdKm float64) []geo.GeoPoint {
	kept := make([]geo.GeoPoint, 0, len(points))
	for _, p := range points {
		tooClose := false
		for _, k := range kept {
			if geo.HaversineKm(p, k) < thresholdKm {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, p)
		}
	}
	return kept
}

// nearestFirst orders points by ascending distance to center, using a
// hierarchical heap keyed by whole meters. Points within the same meter keep
// their input order.
func nearestFirst(points []geo.GeoPoint, center geo.GeoPoint) []geo.GeoPoint {
	if len(points) < 2 {
		return points
	}

	queue, err := priorityqueue.NewHierarchicalHeap(100, 0, maxDistancePriority, false)
	if err != nil {
		return points
	}

	for _, p := range points {
		priority := int(geo.HaversineKm(p, center) * 1000)
		if priority >= maxDistancePriority {
			priority = maxDistancePriority - 1
		}
		queue.Enqueue(p, priority)
	}

	sorted := make([]geo.GeoPoint, 0, len(points))
	for range points {
		value, err := queue.Dequeue()
		if err != nil {
			break
		}
		sorted = append(sorted, value.(geo.GeoPoint))
	}
	return sorted
}

func (s *featureService) query(ctx context.Context, query string) (*overpassResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.limiter != nil {
		if err := s.limiter.Wait(callCtx); err != nil {
			return nil, err
		}
	}

	form := url.Values{}
	form.Set("data", query)

	request, err := http.NewRequestWithContext(callCtx, http.MethodPost, s.apiURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	request.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	response, err := s.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned %s", response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("malformed overpass response: %w", err)
	}
	return &parsed, nil
}
