package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/catalog"
)

// DefaultCount is the number of routes returned when the caller does not ask for a size.
const DefaultCount = 5

// Selector errors.
var (
	ErrModelNotReady = errors.New("recommendation model not trained")
	// ErrInsufficientCatalog is a warning: the catalog holds fewer routes than requested.
	ErrInsufficientCatalog = errors.New("catalog has fewer routes than requested")
)

// Result is one recommendation set with the bookkeeping behind it.
type Result struct {
	Routes       []catalog.Route
	PredictedID  int64
	Matched      int
	Supplemented int
	Warnings     []error
}

// Insufficient reports whether the result carries ErrInsufficientCatalog.
func (r *Result) Insufficient() bool {
	for _, w := range r.Warnings {
		if errors.Is(w, ErrInsufficientCatalog) {
			return true
		}
	}
	return false
}

// ModelInfo describes the model currently serving.
type ModelInfo struct {
	Version   string
	Routes    int
	Labels    int
	TrainedAt time.Time
}

// snapshot pairs a model with the catalog it was trained on.
type snapshot struct {
	model  *Model
	routes []catalog.Route
}

// Selector trains on the catalog and answers recommendation queries.
// Queries read an immutable snapshot; Retrain swaps in a new one atomically.
type Selector struct {
	repo         catalog.Repository
	logger       zerolog.Logger
	metrics      *Metrics
	defaultCount int

	current   atomic.Pointer[snapshot]
	retrainMu sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the random source used for supplementation.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

// WithSeed seeds the supplementation source.
func WithSeed(seed int64) Option {
	return func(s *Selector) { s.rng = rand.New(rand.NewSource(seed)) } //nolint:gosec // not security sensitive
}

// WithDefaultCount overrides DefaultCount.
func WithDefaultCount(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.defaultCount = n
		}
	}
}

// WithMetrics records recommender metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Selector) { s.metrics = m }
}

// NewSelector creates a selector over repo. It serves nothing until Retrain succeeds.
func NewSelector(repo catalog.Repository, logger zerolog.Logger, opts ...Option) *Selector {
	s := &Selector{
		repo:         repo,
		logger:       logger.With().Str("component", "recommend").Logger(),
		defaultCount: DefaultCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // not security sensitive
	}
	return s
}

// Retrain reads the catalog and replaces the serving model.
// An empty catalog clears the model so nothing is served until routes are imported.
// Any other failure leaves the previous model serving.
func (s *Selector) Retrain(ctx context.Context) error {
	s.retrainMu.Lock()
	defer s.retrainMu.Unlock()

	start := time.Now()
	err := s.retrain(ctx)
	s.metrics.recordRetrain(ctx, time.Since(start), err)
	return err
}

func (s *Selector) retrain(ctx context.Context) error {
	routes, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}

	encoded, err := EncodeRoutes(routes)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	model, err := Train(encoded)
	if errors.Is(err, ErrEmptyCatalog) {
		if s.current.Swap(nil) != nil {
			s.logger.Warn().Msg("catalog is empty; recommendation model cleared")
		}
		return err
	}
	if err != nil {
		return err
	}

	s.current.Store(&snapshot{model: model, routes: routes})
	s.logger.Info().
		Int("routes", model.Size()).
		Int("labels", model.Labels()).
		Str("version", model.Version()).
		Msg("recommendation model trained")

	return nil
}

// Ready reports whether a model is serving.
func (s *Selector) Ready() bool {
	return s.current.Load() != nil
}

// ModelInfo describes the serving model. ok is false before the first successful Retrain.
func (s *Selector) ModelInfo() (info ModelInfo, ok bool) {
	snap := s.current.Load()
	if snap == nil {
		return ModelInfo{}, false
	}
	return ModelInfo{
		Version:   snap.model.Version(),
		Routes:    snap.model.Size(),
		Labels:    snap.model.Labels(),
		TrainedAt: snap.model.TrainedAt(),
	}, true
}

// Recommend returns up to n distinct routes for q. n <= 0 uses the default count.
// The predicted route comes first; the rest are drawn at random from the remaining catalog.
func (s *Selector) Recommend(ctx context.Context, q Query, n int) (*Result, error) {
	if n <= 0 {
		n = s.defaultCount
	}

	features, err := EncodeQuery(q)
	if err != nil {
		s.metrics.recordRequest(ctx, "invalid", 0, false)
		return nil, err
	}

	snap := s.current.Load()
	if snap == nil {
		s.metrics.recordRequest(ctx, "not_ready", 0, false)
		return nil, ErrModelNotReady
	}

	predicted := snap.model.Predict(features)
	selected := make([]catalog.Route, 0, n)
	for _, r := range snap.routes {
		if r.ID == predicted {
			selected = append(selected, r)
			break
		}
	}

	result := &Result{PredictedID: predicted, Matched: len(selected)}
	if len(selected) < n {
		added := s.supplement(snap.routes, selected, n-len(selected))
		result.Supplemented = len(added)
		selected = append(selected, added...)
	}
	if len(selected) > n {
		selected = selected[:n]
	}
	result.Routes = selected

	if len(selected) < n {
		result.Warnings = append(result.Warnings, fmt.Errorf("%w: have %d, want %d", ErrInsufficientCatalog, len(selected), n))
		s.logger.Debug().
			Int("available", len(selected)).
			Int("requested", n).
			Msg("catalog smaller than requested recommendation count")
	}

	s.metrics.recordRequest(ctx, "ok", result.Supplemented, result.Insufficient())
	return result, nil
}

// supplement draws up to k routes uniformly at random, without replacement,
// from routes whose IDs are not already selected.
func (s *Selector) supplement(routes, selected []catalog.Route, k int) []catalog.Route {
	taken := make(map[int64]struct{}, len(selected)+k)
	for _, r := range selected {
		taken[r.ID] = struct{}{}
	}

	pool := make([]catalog.Route, 0, len(routes))
	for _, r := range routes {
		if _, ok := taken[r.ID]; ok {
			continue
		}
		// Repeated IDs collapse to their first occurrence.
		taken[r.ID] = struct{}{}
		pool = append(pool, r)
	}

	if k > len(pool) {
		k = len(pool)
	}

	s.rngMu.Lock()
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	s.rngMu.Unlock()

	return pool[:k]
}
