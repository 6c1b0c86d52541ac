package transport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"

	"net/http"

	"github.com/StrideApp/RouteCraft/internal/util/errors"
	"github.com/StrideApp/RouteCraft/pkg/routegen/endpoints"

	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/rs/cors"
)

func NewHTTPHandler(ep endpoints.Set) http.Handler {
	m := http.NewServeMux()

	m.Handle("/api/routes/generate", httptransport.NewServer(
		ep.GenerateEndpoint,
		decodeGenerateRequest,
		encodeGenerateResponse,
		httptransport.ServerErrorEncoder(encodeError),
	))

	return cors.Default().Handler(m)
}

func decodeGenerateRequest(_ context.Context, r *http.Request) (interface{}, error) {
	q := r.URL.Query()

	var req endpoints.GenerationRequest
	var err error

	req.Lat, err = strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: lat: %v", errors.ErrInvalidArgument, err)
	}
	req.Lng, err = strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: lng: %v", errors.ErrInvalidArgument, err)
	}
	req.DistanceKm, err = strconv.ParseFloat(q.Get("distance_km"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: distance_km: %v", errors.ErrInvalidArgument, err)
	}

	req.Style = q.Get("style")
	req.LowTraffic = q.Get("low_traffic") == "true"

	if raw := q.Get("count"); raw != "" {
		req.Count, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: count: %v", errors.ErrInvalidArgument, err)
		}
	}

	if q.Has("end_lat") || q.Has("end_lng") {
		endLat, latErr := strconv.ParseFloat(q.Get("end_lat"), 64)
		endLng, lngErr := strconv.ParseFloat(q.Get("end_lng"), 64)
		if latErr != nil || lngErr != nil {
			return nil, fmt.Errorf("%w: end_lat and end_lng must both be coordinates",
				errors.ErrInvalidArgument)
		}
		req.EndLat = &endLat
		req.EndLng = &endLng
	}

	logger.Log("request_id", uuid.NewString(),
		"lat", req.Lat, "lng", req.Lng, "distance_km", req.DistanceKm,
		"style", req.Style, "count", req.Count, "low_traffic", req.LowTraffic)

	return req, nil
}

func encodeGenerateResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if e, ok := response.(error); ok && e != nil {
		encodeError(ctx, e, w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	switch {
	case stderrors.Is(err, errors.ErrInvalidArgument):
		w.WriteHeader(http.StatusBadRequest)
	case stderrors.Is(err, errors.ErrUnknown):
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}

var logger log.Logger

func init() {
	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
}
