package service

import (
	"context"
	"log/slog"

	"github.com/vidcatapp/vidcat-core/internal/cache"
	"github.com/vidcatapp/vidcat-core/internal/domain"
	"github.com/vidcatapp/vidcat-core/internal/store"
)

// Cache keys for the aggregate queries.
const (
	statsKeyOverview = "stats:overview"
	statsKeyFormats  = "stats:formats"
)

// StatsService serves catalog-wide aggregates through the TTL cache.
// Mutation paths invalidate the cache synchronously, so a result here is
// never older than the last mutation or the TTL, whichever is sooner.
type StatsService struct {
	store  store.Store
	cache  *cache.StatsCache
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(st store.Store, c *cache.StatsCache, logger *slog.Logger) *StatsService {
	return &StatsService{store: st, cache: c, logger: logger}
}

// Overview returns the catalog aggregates: entity counts, storage bytes
// over local copies, availability counts, and per-format breakdown.
func (s *StatsService) Overview(ctx context.Context) (*domain.OverviewStats, error) {
	v, err := s.cache.GetOrCompute(ctx, statsKeyOverview, func(ctx context.Context) (any, error) {
		s.logger.Debug("computing overview stats")
		return s.store.OverviewStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.OverviewStats), nil
}

// Formats returns the distinct container formats present in the catalog.
func (s *StatsService) Formats(ctx context.Context) ([]string, error) {
	v, err := s.cache.GetOrCompute(ctx, statsKeyFormats, func(ctx context.Context) (any, error) {
		return s.store.ListFormats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
