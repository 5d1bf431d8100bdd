package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrStoreUnavailable is returned while the circuit breaker is open.
var ErrStoreUnavailable = errors.New("catalog store unavailable")

// ResilienceConfig tunes ResilientRepository.
type ResilienceConfig struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRetries bounds List retries. Default: 3
	MaxRetries uint64

	// InitialInterval is the first backoff delay. Default: 100ms
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay. Default: 2s
	MaxInterval time.Duration

	// BreakerTimeout is how long the breaker stays open. Default: 30s
	BreakerTimeout time.Duration

	Logger zerolog.Logger
}

// ResilientRepository guards another Repository with a circuit breaker and
// retries reads with exponential backoff. Writes are never retried.
type ResilientRepository struct {
	next      Repository
	cfg       ResilienceConfig
	listCB    *gobreaker.CircuitBreaker[[]Route]
	replaceCB *gobreaker.CircuitBreaker[int]
	logger    zerolog.Logger
}

// NewResilientRepository wraps next.
func NewResilientRepository(next Repository, cfg ResilienceConfig) *ResilientRepository {
	if cfg.Name == "" {
		cfg.Name = "catalog"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	logger := cfg.Logger.With().Str("component", "catalog_breaker").Logger()
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: readyToTrip,
		// Bad data is not a store outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnknownCategory) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("catalog circuit breaker state changed")
		},
	}

	return &ResilientRepository{
		next:      next,
		cfg:       cfg,
		listCB:    gobreaker.NewCircuitBreaker[[]Route](settings),
		replaceCB: gobreaker.NewCircuitBreaker[int](settings),
		logger:    logger,
	}
}

// readyToTrip opens the breaker at a 50% failure rate over at least 5 requests.
func readyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < 5 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
}

// List reads through the breaker, retrying transient failures.
func (r *ResilientRepository) List(ctx context.Context) ([]Route, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.cfg.InitialInterval
	bo.MaxInterval = r.cfg.MaxInterval
	bo.MaxElapsedTime = 0

	var routes []Route
	operation := func() error {
		result, err := r.listCB.Execute(func() ([]Route, error) {
			return r.next.List(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrStoreUnavailable)
			}
			if errors.Is(err, ErrUnknownCategory) {
				return backoff.Permanent(err)
			}
			r.logger.Debug().Err(err).Msg("catalog list failed, retrying")
			return err
		}
		routes = result
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, r.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return routes, nil
}

// ReplaceAll writes through the breaker without retrying.
func (r *ResilientRepository) ReplaceAll(ctx context.Context, rows []Row) (int, error) {
	n, err := r.replaceCB.Execute(func() (int, error) {
		return r.next.ReplaceAll(ctx, rows)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return 0, ErrStoreUnavailable
	}
	return n, err
}

// State returns the read breaker state for readiness reporting.
func (r *ResilientRepository) State() gobreaker.State {
	return r.listCB.State()
}

// Ensure ResilientRepository implements Repository interface.
var _ Repository = (*ResilientRepository)(nil)
