package osrm

// Road router client implementation against an OSRM-compatible directions API.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/StrideApp/RouteCraft/internal/util/geo"
	"github.com/go-kit/log"
)

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

type roadRouterService struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	retries int
	backoff time.Duration
	logger  log.Logger
}

// NewService builds a road router client. retries is the number of extra
// attempts after the first on a transient (network or 5xx) failure; backoff
// grows linearly with the attempt number.
func NewService(baseURL string, timeout time.Duration, retries int, backoff time.Duration, logger log.Logger) Service {
	return &roadRouterService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
		retries: retries,
		backoff: backoff,
		logger:  logger,
	}
}

func (s *roadRouterService) Route(ctx context.Context, waypoints []geo.GeoPoint) (*RouteResult, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("route needs at least 2 waypoints, got %d", len(waypoints))
	}

	coords := make([]string, len(waypoints))
	for i, p := range waypoints {
		// OSRM expects longitude,latitude order.
		coords[i] = fmt.Sprintf("%f,%f", p.Lng, p.Lat)
	}
	requestURL := s.baseURL + "/" + strings.Join(coords, ";") +
		"?overview=full&geometries=geojson&steps=false"

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, retryable, err := s.attempt(ctx, requestURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		s.logger.Log("during", "Route", "attempt", attempt+1, "err", err)
	}

	return nil, lastErr
}

// attempt issues one routing request. The second return reports whether the
// failure is transient and worth retrying.
func (s *roadRouterService) attempt(ctx context.Context, requestURL string) (*RouteResult, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(callCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, err
	}

	response, err := s.client.Do(request)
	if err != nil {
		return nil, true, err
	}
	defer response.Body.Close()

	if response.StatusCode >= 500 {
		return nil, true, fmt.Errorf("router returned %s", response.Status)
	}
	if response.StatusCode != http.StatusOK {
		// 4xx means the request itself is wrong; retrying will not help.
		return nil, false, fmt.Errorf("router returned %s", response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, true, err
	}

	var parsed osrmResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, fmt.Errorf("malformed router response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, false, fmt.Errorf("router gave no route (code %q)", parsed.Code)
	}

	route := parsed.Routes[0]
	points := make([]geo.GeoPoint, 0, len(route.Geometry.Coordinates))
	for _, c := range route.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		points = append(points, geo.GeoPoint{Lat: c[1], Lng: c[0]})
	}
	if len(points) == 0 {
		return nil, false, fmt.Errorf("router route has no geometry")
	}

	return &RouteResult{
		Points:      points,
		DistanceKm:  route.Distance / 1000.0,
		DurationMin: route.Duration / 60.0,
	}, false, nil
}
