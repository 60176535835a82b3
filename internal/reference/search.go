package reference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/flight-weather-insights/internal/metrics"
)

// DefaultSearchLimit is the number of candidates requested from the directory.
const DefaultSearchLimit = 10

// SearchCache stores search results per query text.
type SearchCache interface {
	Get(ctx context.Context, query string) ([]Candidate, bool)
	Set(ctx context.Context, query string, candidates []Candidate, ttl time.Duration)
}

// Searcher runs free-text location searches through a cache.
type Searcher struct {
	directory LocationDirectory
	cache     SearchCache
	ttl       time.Duration
	log       *zap.SugaredLogger
}

// NewSearcher creates a Searcher. A nil cache disables caching.
func NewSearcher(directory LocationDirectory, cache SearchCache, ttl time.Duration, log *zap.SugaredLogger) *Searcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Searcher{directory: directory, cache: cache, ttl: ttl, log: log}
}

// Search returns up to DefaultSearchLimit candidates carrying an IATA code.
func (s *Searcher) Search(ctx context.Context, query string) ([]Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if s.cache != nil {
		if hit, ok := s.cache.Get(ctx, query); ok {
			metrics.LocationCacheLookups.WithLabelValues("hit").Inc()
			return hit, nil
		}
		metrics.LocationCacheLookups.WithLabelValues("miss").Inc()
	}

	found, err := s.directory.SearchLocations(ctx, query, DefaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("location search %q: %w", query, err)
	}

	candidates := make([]Candidate, 0, len(found))
	for _, c := range found {
		if c.IATA == "" {
			continue
		}
		candidates = append(candidates, c)
	}

	if s.cache != nil {
		s.cache.Set(ctx, query, candidates, s.ttl)
	}
	s.log.Debugw("location search", "query", query, "candidates", len(candidates))
	return candidates, nil
}
