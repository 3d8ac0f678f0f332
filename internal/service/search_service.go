package service

import (
	"context"
	"strings"
	stdsync "sync"
	"time"

	"countme-core/internal/domain"
)

// NutritionSearcher looks up foods in an external nutrition database.
type NutritionSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.NutritionSearchResult, error)
}

// SearchService debounces and deduplicates nutrition lookups: a new query
// cancels the in-flight one, so results for a stale query never reach the
// caller after a newer query was issued.
type SearchService struct {
	provider NutritionSearcher
	debounce time.Duration
	limit    int

	mu     stdsync.Mutex
	cancel context.CancelFunc
}

const defaultSearchLimit = 20

func NewSearchService(provider NutritionSearcher, debounce time.Duration, limit int) *SearchService {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return &SearchService{
		provider: provider,
		debounce: debounce,
		limit:    limit,
	}
}

// Search waits out the debounce window and then queries the provider. If a
// newer Search arrives first, the older call returns context.Canceled.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.NutritionSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.NutritionSearchResult{}, nil
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	if s.debounce > 0 {
		timer := time.NewTimer(s.debounce)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	results, err := s.provider.Search(ctx, query, s.limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.NutritionSearchResult{}
	}
	return results, nil
}
