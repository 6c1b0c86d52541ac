package routegen

// Route generation service implementation: the pipeline that synthesizes
// candidate skeletons, resolves them against the external router, enriches
// them with map-feature signals, and ranks the results.

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/StrideApp/RouteCraft/internal/util/concurrent"
	"github.com/StrideApp/RouteCraft/internal/util/errors"
	"github.com/StrideApp/RouteCraft/internal/util/geo"
	"github.com/StrideApp/RouteCraft/pkg/osrm"
	"github.com/StrideApp/RouteCraft/pkg/overpass"
	"github.com/go-kit/log"
	"github.com/lithammer/shortuuid/v3"
)

const (
	minGreenSearchRadiusKm = 1.5
	maxGreenSearchRadiusKm = 10.0
)

type routeGenService struct {
	router   osrm.Service
	features overpass.Service
	logger   log.Logger

	candidateCount int

	// fallbackPaceMinPerKm converts distance to a time estimate when the
	// external router supplied no duration. A placeholder model.
	fallbackPaceMinPerKm float64

	// Elevation gain estimate constants; there is no real elevation source in
	// the live pipeline.
	elevationBaseM       float64
	elevationPerKmM      float64
	elevationPerVariantM float64

	// now and newSuffix feed route id generation; injectable so tests can fix
	// them.
	now       func() time.Time
	newSuffix func() string
}

// Option tweaks a route generation service at construction time.
type Option func(*routeGenService)

func WithCandidateCount(n int) Option {
	return func(s *routeGenService) { s.candidateCount = n }
}

func WithFallbackPace(minPerKm float64) Option {
	return func(s *routeGenService) { s.fallbackPaceMinPerKm = minPerKm }
}

func WithElevationModel(baseM, perKmM, perVariantM float64) Option {
	return func(s *routeGenService) {
		s.elevationBaseM = baseM
		s.elevationPerKmM = perKmM
		s.elevationPerVariantM = perVariantM
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *routeGenService) { s.now = now }
}

func WithIDSuffix(fn func() string) Option {
	return func(s *routeGenService) { s.newSuffix = fn }
}

// NewService builds the route generation pipeline on top of a road router and
// a feature query client.
func NewService(router osrm.Service, features overpass.Service, logger log.Logger, opts ...Option) Service {
	s := &routeGenService{
		router:               router,
		features:             features,
		logger:               logger,
		candidateCount:       3,
		fallbackPaceMinPerKm: 6.0,
		elevationBaseM:       5.0,
		elevationPerKmM:      3.0,
		elevationPerVariantM: 2.0,
		now:                  time.Now,
		newSuffix:            shortuuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *routeGenService) GenerateRoutes(ctx context.Context, params GenerationParams) ([]GeneratedRoute, error) {
	style, err := s.validate(params)
	if err != nil {
		return nil, err
	}

	greenSpaces := s.prefetchGreenSpaces(ctx, params, style)

	skeletons := s.synthesize(params, style, greenSpaces)

	candidates := s.resolveAll(ctx, skeletons)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := s.enrichAndScore(ctx, candidates, params)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	routes := make([]GeneratedRoute, 0, params.Count)
	for _, sc := range scored[:params.Count] {
		routes = append(routes, s.materialize(sc, params, style))
	}
	return routes, nil
}

// validate rejects caller defects synchronously. Environmental failures never
// surface here; they degrade inside the pipeline instead.
func (s *routeGenService) validate(params GenerationParams) (RouteStyle, error) {
	if params.TargetDistanceKm <= 0 {
		return 0, fmt.Errorf("%w: target distance must be positive, got %v",
			errors.ErrInvalidArgument, params.TargetDistanceKm)
	}
	if params.Count < 1 {
		return 0, fmt.Errorf("%w: count must be at least 1, got %d",
			errors.ErrInvalidArgument, params.Count)
	}
	if params.Count > s.candidateCount {
		return 0, fmt.Errorf("%w: count %d exceeds the %d synthesized candidates",
			errors.ErrInvalidArgument, params.Count, s.candidateCount)
	}

	// A supplied end point always forces point-to-point, whatever style the
	// caller asked for.
	style := params.Style
	if params.End != nil {
		style = StylePointToPoint
	}
	if style == StylePointToPoint && params.End == nil {
		return 0, fmt.Errorf("%w: point-to-point routes need an end point",
			errors.ErrInvalidArgument)
	}
	return style, nil
}

// prefetchGreenSpaces fetches green-space bias points once, shared by every
// candidate in this call. Only the low-traffic preference wants the bias, so
// any other preference set skips the network entirely.
func (s *routeGenService) prefetchGreenSpaces(ctx context.Context, params GenerationParams, style RouteStyle) []geo.GeoPoint {
	if !params.Prefs.LowTraffic {
		return nil
	}

	var radiusKm float64
	switch style {
	case StyleLoop:
		radiusKm = 0.8 * params.TargetDistanceKm
	case StylePointToPoint:
		radiusKm = 0.6 * geo.HaversineKm(params.Center, *params.End)
	default:
		radiusKm = 0.6 * params.TargetDistanceKm
	}
	radiusKm = math.Min(math.Max(radiusKm, minGreenSearchRadiusKm), maxGreenSearchRadiusKm)

	return s.features.GreenSpaces(ctx, params.Center, radiusKm)
}

func (s *routeGenService) synthesize(params GenerationParams, style RouteStyle, greenSpaces []geo.GeoPoint) [][]geo.GeoPoint {
	skeletons := make([][]geo.GeoPoint, 0, s.candidateCount)
	for variant := 1; variant <= s.candidateCount; variant++ {
		var skeleton []geo.GeoPoint
		switch style {
		case StyleOutAndBack:
			skeleton = synthesizeOutAndBack(params.Center, params.TargetDistanceKm, params.Prefs, variant, greenSpaces)
		case StylePointToPoint:
			skeleton = synthesizePointToPoint(params.Center, *params.End, params.Prefs, variant, greenSpaces)
		default:
			skeleton = synthesizeLoop(params.Center, params.TargetDistanceKm, params.Prefs, variant, greenSpaces)
		}
		skeletons = append(skeletons, skeleton)
	}
	return skeletons
}

type resolveJob struct {
	index    int
	skeleton []geo.GeoPoint
}

// resolveAll turns every skeleton into a ResolvedCandidate concurrently. Each
// candidate settles independently: a failed router call degrades that one
// candidate to its raw skeleton and never blocks its siblings.
func (s *routeGenService) resolveAll(ctx context.Context, skeletons [][]geo.GeoPoint) []ResolvedCandidate {
	pool := concurrent.NewWorkerPool[resolveJob, ResolvedCandidate](len(skeletons), len(skeletons))
	pool.Start(func(job resolveJob) ResolvedCandidate {
		return s.resolve(ctx, job)
	})

	for i, skeleton := range skeletons {
		pool.AddJob(resolveJob{index: i, skeleton: skeleton})
	}
	pool.Close()
	pool.Wait()

	candidates := make([]ResolvedCandidate, len(skeletons))
	for c := range pool.Results() {
		candidates[c.Index] = c
	}
	return candidates
}

func (s *routeGenService) resolve(ctx context.Context, job resolveJob) ResolvedCandidate {
	result, err := s.router.Route(ctx, job.skeleton)
	if err != nil || result == nil {
		if err != nil {
			s.logger.Log("during", "resolve", "candidate", job.index, "fallback", "skeleton", "err", err)
		}
		distanceKm := geo.PathLengthKm(job.skeleton)
		return ResolvedCandidate{
			Index:              job.index,
			Variant:            job.index + 1,
			Points:             job.skeleton,
			DistanceKm:         distanceKm,
			EstimatedTimeMin:   distanceKm * s.fallbackPaceMinPerKm,
			FromExternalRouter: false,
		}
	}

	return ResolvedCandidate{
		Index:              job.index,
		Variant:            job.index + 1,
		Points:             result.Points,
		DistanceKm:         result.DistanceKm,
		EstimatedTimeMin:   result.DurationMin,
		FromExternalRouter: true,
	}
}

// enrichAndScore attaches a quiet score to every candidate (concurrently when
// the preference demands network enrichment, neutrally otherwise) and scores
// each one against the target distance.
func (s *routeGenService) enrichAndScore(ctx context.Context, candidates []ResolvedCandidate, params GenerationParams) []ScoredCandidate {
	quietScores := make([]float64, len(candidates))

	if params.Prefs.LowTraffic {
		type enrichResult struct {
			index int
			score float64
		}
		pool := concurrent.NewWorkerPool[ResolvedCandidate, enrichResult](len(candidates), len(candidates))
		pool.Start(func(c ResolvedCandidate) enrichResult {
			return enrichResult{index: c.Index, score: s.features.QuietScore(ctx, c.Points)}
		})
		for _, c := range candidates {
			pool.AddJob(c)
		}
		pool.Close()
		pool.Wait()
		for r := range pool.Results() {
			quietScores[r.index] = r.score
		}
	} else {
		for i := range quietScores {
			quietScores[i] = overpass.NeutralQuietScore
		}
	}

	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredCandidate{
			Candidate:  c,
			QuietScore: quietScores[i],
			Score:      scoreCandidate(c.DistanceKm, params.TargetDistanceKm, params.Prefs, quietScores[i]),
		}
	}
	return scored
}

func (s *routeGenService) materialize(sc ScoredCandidate, params GenerationParams, style RouteStyle) GeneratedRoute {
	c := sc.Candidate

	elevationGainM := int(math.Round(s.elevationBaseM +
		c.DistanceKm*s.elevationPerKmM +
		float64(c.Variant)*s.elevationPerVariantM))

	return GeneratedRoute{
		ID:               fmt.Sprintf("route-%d-%d-%s", c.Index, s.now().UnixMilli(), s.newSuffix()),
		Name:             pickRouteName(params.Prefs, c.Index, params.Center.Lat),
		Points:           c.Points,
		DistanceKm:       c.DistanceKm,
		EstimatedTimeMin: c.EstimatedTimeMin,
		ElevationGainM:   elevationGainM,
		Terrain:          style.Terrain(),
		Difficulty:       difficultyForDistance(c.DistanceKm),
	}
}
