package service

import (
	"context"

	"github.com/avoronin/cardbox/internal/cache"
	"github.com/avoronin/cardbox/internal/models"
)

// StatsRepository defines the statistics persistence operations
// required by the stats service.
type StatsRepository interface {
	// GetCategoryStats computes the user's per-category status counts.
	GetCategoryStats(ctx context.Context, userID int64) ([]models.CategoryLearningStats, error)
	// GetUserStats fetches the user's aggregate counters.
	GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

// StatsService serves learning statistics through the shared cache.
// The underlying counters are maintained incrementally by the
// evaluation path, so reads here never scan review history.
type StatsService struct {
	stats StatsRepository
	cache *cache.Cache
}

// NewStatsService constructs a StatsService over the given repository
// and cache.
func NewStatsService(stats StatsRepository, c *cache.Cache) *StatsService {
	return &StatsService{stats: stats, cache: c}
}

// CategoryStats returns the user's per-category card counts by
// learning status.
func (s *StatsService) CategoryStats(ctx context.Context, userID int64) ([]models.CategoryLearningStats, error) {
	key := cache.CategoryStatsKey(userID)
	if v, ok := s.cache.Get(key); ok {
		return append([]models.CategoryLearningStats(nil), v.([]models.CategoryLearningStats)...), nil
	}
	stats, err := s.stats.GetCategoryStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, append([]models.CategoryLearningStats(nil), stats...))
	return stats, nil
}

// UserStats returns the user's aggregate review counters. A user who
// never evaluated a card gets a zero-valued row.
func (s *StatsService) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	key := cache.UserStatsKey(userID)
	if v, ok := s.cache.Get(key); ok {
		stats := v.(models.UserStats)
		return &stats, nil
	}
	stats, err := s.stats.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, *stats)
	return stats, nil
}
