package service

import (
	"context"
	"log/slog"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	"github.com/vidcatapp/vidcat-core/internal/store"
)

// DefaultSuggestLimit caps autocomplete results when the caller passes none.
const DefaultSuggestLimit = 10

// SearchService fronts the multi-criteria query engine.
type SearchService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(st store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{store: st, logger: logger}
}

// Search runs a structured query. All supplied predicates are conjoined;
// results come back in the filter's sort order with deterministic ties.
func (s *SearchService) Search(ctx context.Context, f store.VideoFilter) ([]*domain.Video, error) {
	results, err := s.store.SearchVideos(ctx, f)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search executed",
		"results", len(results),
		"text", f.Text,
		"indexed", f.HasIndexedPredicate(),
	)
	return results, nil
}

// Count returns how many videos match the filter, ignoring pagination.
func (s *SearchService) Count(ctx context.Context, f store.VideoFilter) (int64, error) {
	return s.store.CountVideos(ctx, f)
}

// Suggest returns autocomplete candidates for a prefix. Prefixes shorter
// than two characters yield nothing.
func (s *SearchService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	return s.store.Suggest(ctx, prefix, limit)
}
