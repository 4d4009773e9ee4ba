package quote

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"goldcatalog/internal/model"
	"goldcatalog/internal/observability"
)

// DefaultFallbackRate is the USD/gram used for pricing when no quote has been
// fetched successfully.
const DefaultFallbackRate = 20.0

// Store owns the process-wide current quote. Readers see either the previous
// quote or the new one, never a partial write.
type Store struct {
	fetcher  Fetcher
	fallback float64
	snapshot Snapshot
	logger   *zap.Logger

	current atomic.Pointer[model.Quote]
	// configErr is set once the feed reports it cannot be queried at all.
	// Later refreshes return it without calling the feed again.
	configErr atomic.Pointer[ConfigError]
	inflight  singleflight.Group
}

type Option func(*Store)

// WithSnapshot shares the last good quote across processes.
func WithSnapshot(s Snapshot) Option {
	return func(st *Store) { st.snapshot = s }
}

func NewStore(f Fetcher, fallback float64, logger *zap.Logger, opts ...Option) *Store {
	if fallback <= 0 {
		fallback = DefaultFallbackRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{fetcher: f, fallback: fallback, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Refresh fetches once and replaces the current quote on success. On failure
// the previous quote stays in place. A ConfigError is remembered and returned
// by every later call without touching the feed.
func (s *Store) Refresh(ctx context.Context) (model.Quote, error) {
	if cerr := s.configErr.Load(); cerr != nil {
		return model.Quote{}, cerr
	}

	q, err := s.fetcher.Fetch(ctx)
	if err == nil && q.PricePerGram <= 0 {
		err = &UpstreamError{Err: errors.New("non-positive gold price")}
	}
	if err != nil {
		observability.QuoteFetches.WithLabelValues("error").Inc()
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			if s.configErr.CompareAndSwap(nil, cerr) {
				s.logger.Error("gold quote feed not configured, live pricing disabled", zap.Error(err))
			}
			return model.Quote{}, err
		}
		s.logger.Warn("gold quote fetch failed", zap.Error(err))
		return model.Quote{}, err
	}

	observability.QuoteFetches.WithLabelValues("ok").Inc()
	s.set(q)
	s.logger.Info("gold quote refreshed",
		zap.Float64("price_per_gram", q.PricePerGram),
		zap.Time("observed_at", q.Timestamp))

	if s.snapshot != nil {
		if err := s.snapshot.Save(ctx, q); err != nil {
			s.logger.Warn("quote snapshot save failed", zap.Error(err))
		}
	}
	return q, nil
}

// Ensure returns the rate to price with, fetching first when no quote is held
// yet. Concurrent callers share one fetch. A failed fetch yields the fallback.
func (s *Store) Ensure(ctx context.Context, timeout time.Duration) (float64, bool) {
	if rate, live := s.Rate(); live || s.configErr.Load() != nil {
		return rate, live
	}
	_, _, _ = s.inflight.Do("quote", func() (any, error) {
		if _, ok := s.Current(); ok {
			return nil, nil
		}
		return nil, s.refreshWithTimeout(ctx, timeout)
	})
	return s.Rate()
}

// Current returns the last good quote, if any.
func (s *Store) Current() (model.Quote, bool) {
	p := s.current.Load()
	if p == nil {
		return model.Quote{}, false
	}
	return *p, true
}

// Rate is the USD/gram to price with right now, and whether it came from a
// real quote rather than the fallback.
func (s *Store) Rate() (float64, bool) {
	if q, ok := s.Current(); ok {
		return q.PricePerGram, true
	}
	return s.fallback, false
}

func (s *Store) Fallback() float64 { return s.fallback }

// Seed loads a previously saved quote from the snapshot, if one is configured
// and nothing has been fetched yet.
func (s *Store) Seed(ctx context.Context) {
	if s.snapshot == nil {
		return
	}
	q, ok, err := s.snapshot.Load(ctx)
	if err != nil {
		s.logger.Warn("quote snapshot load failed", zap.Error(err))
		return
	}
	if !ok || q.PricePerGram <= 0 {
		return
	}
	if s.current.CompareAndSwap(nil, &q) {
		observability.GoldPricePerGram.Set(q.PricePerGram)
		s.logger.Info("gold quote seeded from snapshot", zap.Float64("price_per_gram", q.PricePerGram))
	}
}

// Run refreshes immediately and then every interval until ctx is done.
// Transient failures are logged and never stop the loop. A ConfigError stops
// it and is returned.
func (s *Store) Run(ctx context.Context, interval, timeout time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var cerr *ConfigError
		if err := s.refreshWithTimeout(ctx, timeout); errors.As(err, &cerr) {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Store) refreshWithTimeout(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	_, err := s.Refresh(ctx)
	return err
}

func (s *Store) set(q model.Quote) {
	s.current.Store(&q)
	observability.GoldPricePerGram.Set(q.PricePerGram)
}
