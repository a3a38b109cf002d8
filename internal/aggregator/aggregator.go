package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/pkg/logger"
)

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	Now         func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxRetries:  1,
		RetryDelays: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond},
		Now:         time.Now,
	}
}

type Kind int

const (
	KindLive Kind = iota
	KindFallback
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindLive:
		return "live"
	case KindFallback:
		return "mock"
	default:
		return "invalid"
	}
}

// FallbackReason says why the static result set was served instead of live
// results.
type FallbackReason string

const (
	ReasonNoCredentials FallbackReason = "credentials_missing"
	ReasonProviderError FallbackReason = "provider_error"
	ReasonEmptyResults  FallbackReason = "empty_results"
)

// Result is the outcome of one search request. Err is set for KindInvalid
// and carries the provider failure for ReasonProviderError.
type Result struct {
	Kind    Kind
	Flights []models.Flight
	Reason  FallbackReason
	Err     error
}

// Aggregator validates a search and picks between the live provider and the
// fallback data. A nil live provider means credentials are not configured.
type Aggregator struct {
	live     providers.Provider
	fallback providers.Provider
	config   Config
	logger   *logger.Logger
}

func NewAggregator(live, fallback providers.Provider, config Config, log *logger.Logger) *Aggregator {
	if config.Now == nil {
		config.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{
		live:     live,
		fallback: fallback,
		config:   config,
		logger:   log.Named("aggregator"),
	}
}

func (a *Aggregator) LiveEnabled() bool {
	return a.live != nil
}

func (a *Aggregator) Search(ctx context.Context, params models.SearchParams) Result {
	criteria, err := params.Criteria(a.config.Now())
	if err != nil {
		return Result{Kind: KindInvalid, Err: err}
	}

	if a.live == nil {
		return a.fallbackResult(ctx, criteria, ReasonNoCredentials, nil)
	}

	searchCtx := ctx
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	flights, err := a.searchWithRetry(searchCtx, a.live, criteria)
	if err != nil {
		a.logger.Error("Live search failed, serving fallback flights",
			logger.String("provider", a.live.Name()),
			logger.String("origin", criteria.Origin),
			logger.String("destination", criteria.Destination),
			logger.Error(err),
		)
		return a.fallbackResult(ctx, criteria, ReasonProviderError, err)
	}
	if len(flights) == 0 {
		a.logger.Info("Live search returned no flights, serving fallback flights",
			logger.String("origin", criteria.Origin),
			logger.String("destination", criteria.Destination),
		)
		return a.fallbackResult(ctx, criteria, ReasonEmptyResults, nil)
	}

	return Result{Kind: KindLive, Flights: flights}
}

func (a *Aggregator) fallbackResult(ctx context.Context, criteria models.SearchCriteria, reason FallbackReason, cause error) Result {
	flights, err := a.fallback.Search(ctx, criteria)
	if err != nil {
		a.logger.Error("Fallback provider failed", logger.Error(err))
		flights = nil
	}
	if flights == nil {
		flights = []models.Flight{}
	}
	return Result{Kind: KindFallback, Flights: flights, Reason: reason, Err: cause}
}

type temporary interface {
	Temporary() bool
}

func retryable(err error) bool {
	var t temporary
	return errors.As(err, &t) && t.Temporary()
}

func (a *Aggregator) searchWithRetry(ctx context.Context, provider providers.Provider, criteria models.SearchCriteria) ([]models.Flight, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 && len(a.config.RetryDelays) > 0 {
			delayIdx := min(attempt-1, len(a.config.RetryDelays)-1)

			select {
			case <-time.After(a.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, lastErr
			}
		}

		flights, err := provider.Search(ctx, criteria)
		if err == nil {
			return flights, nil
		}

		lastErr = err
		if !retryable(err) {
			return nil, err
		}
		a.logger.Warn("Provider attempt failed",
			logger.String("provider", provider.Name()),
			logger.Int("attempt", attempt+1),
			logger.Error(err),
		)
	}

	return nil, lastErr
}
