package service

import (
	"context"
	"testing"

	"github.com/avoronin/cardbox/internal/cache"
	"github.com/avoronin/cardbox/internal/models"
)

type mockStatsRepo struct {
	GetCategoryStatsFunc func(ctx context.Context, userID int64) ([]models.CategoryLearningStats, error)
	GetUserStatsFunc     func(ctx context.Context, userID int64) (*models.UserStats, error)
}

func (m *mockStatsRepo) GetCategoryStats(ctx context.Context, userID int64) ([]models.CategoryLearningStats, error) {
	return m.GetCategoryStatsFunc(ctx, userID)
}
func (m *mockStatsRepo) GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return m.GetUserStatsFunc(ctx, userID)
}

func TestCategoryStats_ReadThrough(t *testing.T) {
	calls := 0
	repo := &mockStatsRepo{
		GetCategoryStatsFunc: func(_ context.Context, userID int64) ([]models.CategoryLearningStats, error) {
			calls++
			return []models.CategoryLearningStats{
				{CategoryID: 10, Name: "Go", Total: 4, New: 1, FirstRepeat: 1, SecondRepeat: 1, Learned: 1},
			}, nil
		},
	}
	svc := NewStatsService(repo, cache.New(cache.DefaultTTL))

	for i := 0; i < 2; i++ {
		stats, err := svc.CategoryStats(context.Background(), 1)
		if err != nil {
			t.Fatalf("CategoryStats: %v", err)
		}
		if len(stats) != 1 || stats[0].Total != 4 {
			t.Fatalf("stats = %+v", stats)
		}
	}
	if calls != 1 {
		t.Errorf("repository called %d times; want 1", calls)
	}
}

func TestUserStats_PerUserKeys(t *testing.T) {
	repo := &mockStatsRepo{
		GetUserStatsFunc: func(_ context.Context, userID int64) (*models.UserStats, error) {
			return &models.UserStats{UserID: userID, TotalReviewed: int(userID * 10), Correct: int(userID * 5)}, nil
		},
	}
	svc := NewStatsService(repo, cache.New(cache.DefaultTTL))

	one, err := svc.UserStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("UserStats(1): %v", err)
	}
	two, err := svc.UserStats(context.Background(), 2)
	if err != nil {
		t.Fatalf("UserStats(2): %v", err)
	}
	if one.TotalReviewed != 10 || two.TotalReviewed != 20 {
		t.Errorf("cached rows crossed users: %+v %+v", one, two)
	}
	if got := two.Accuracy(); got != 0.5 {
		t.Errorf("accuracy = %v; want 0.5", got)
	}
}
