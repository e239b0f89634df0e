package imagesearch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/domain"
	"github.com/kailas-cloud/filerec/internal/metrics"
)

// Options holds fetch policy knobs.
type Options struct {
	// Enabled=false turns off live retrieval entirely; cached results are
	// still served. A supported deployment mode, not a degradation.
	Enabled           bool
	MaxImages         int
	MaxPreferenceTags int
	// RetryAttempts is the total attempt budget; only timeouts are retried.
	RetryAttempts int
}

// Service serves external images cache-first with a bounded live fetch on miss.
type Service struct {
	cache    Cache
	searcher Searcher
	prefs    PreferenceSource
	opts     Options
	logger   *zap.Logger
}

// New creates the external image service. searcher may be nil only when
// opts.Enabled is false.
func New(cache Cache, searcher Searcher, prefs PreferenceSource, opts Options, logger *zap.Logger) *Service {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 1
	}
	return &Service{cache: cache, searcher: searcher, prefs: prefs, opts: opts, logger: logger}
}

// Images returns external images for a query. Never fails: every failure
// path degrades to fewer (or zero) images. Cache lookup always precedes any
// live fetch.
func (s *Service) Images(ctx context.Context, query, userID string) []domain.ImageDescriptor {
	cached, err := s.cache.Lookup(ctx, query, s.opts.MaxImages)
	if err != nil {
		s.logger.Warn("image cache lookup failed, treating as miss",
			zap.String("query", query), zap.Error(err))
	}
	if len(cached) > 0 {
		metrics.ImageSearchCacheTotal.WithLabelValues("hit").Inc()
		return cached
	}
	metrics.ImageSearchCacheTotal.WithLabelValues("miss").Inc()

	if !s.opts.Enabled {
		return nil
	}

	results, ok := s.fetch(ctx, s.enhanceQuery(ctx, query, userID))
	if !ok {
		return nil
	}

	accepted := make([]domain.ImageDescriptor, 0, s.opts.MaxImages)
	for _, d := range results {
		if !d.Valid() {
			continue // silently dropped per the acceptance contract
		}
		accepted = append(accepted, d)
		if len(accepted) == s.opts.MaxImages {
			break
		}
	}
	if len(accepted) == 0 {
		return nil
	}

	// Persist before returning so the next identical query is a cache hit.
	if err := s.cache.Store(ctx, query, accepted); err != nil {
		s.logger.Warn("image cache store failed",
			zap.String("query", query), zap.Error(err))
	}
	return accepted
}

// enhanceQuery appends up to MaxPreferenceTags preference tags to the raw
// query. A user without history searches with the raw query unchanged.
func (s *Service) enhanceQuery(ctx context.Context, query, userID string) string {
	tags := s.prefs.Tags(ctx, userID)
	if len(tags) == 0 {
		return query
	}
	if len(tags) > s.opts.MaxPreferenceTags {
		tags = tags[:s.opts.MaxPreferenceTags]
	}
	return query + " " + strings.Join(tags, " ")
}

// fetch runs the live search with the retry budget. Timeouts reset the
// session and retry; any other failure, or an exhausted budget, gives up.
func (s *Service) fetch(ctx context.Context, query string) ([]domain.ImageDescriptor, bool) {
	for attempt := 1; ; attempt++ {
		results, err := s.searcher.Search(ctx, query, s.opts.MaxImages)
		if err == nil {
			return results, true
		}

		if !domain.IsTimeout(err) {
			s.logger.Warn("live image search failed",
				zap.String("query", query), zap.Error(err))
			return nil, false
		}
		if attempt >= s.opts.RetryAttempts {
			s.logger.Warn("live image search timed out, retries exhausted",
				zap.String("query", query),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return nil, false
		}

		s.logger.Warn("live image search timed out, resetting session",
			zap.String("query", query),
			zap.Int("attempt", attempt),
		)
		s.searcher.Reset()
	}
}
