package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/cardbox/internal/models"
)

// fakeStatsService implements StatsService for testing.
type fakeStatsService struct {
	CategoryStatsFunc func(ctx context.Context, userID int64) ([]models.CategoryLearningStats, error)
	UserStatsFunc     func(ctx context.Context, userID int64) (*models.UserStats, error)
}

func (f *fakeStatsService) CategoryStats(ctx context.Context, userID int64) ([]models.CategoryLearningStats, error) {
	return f.CategoryStatsFunc(ctx, userID)
}
func (f *fakeStatsService) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return f.UserStatsFunc(ctx, userID)
}

func statsRouter(svc StatsService) http.Handler {
	return testRouter(&CategoryHandler{}, &CardHandler{}, &StudyHandler{}, &StatsHandler{StatsService: svc})
}

func TestStatsCategories(t *testing.T) {
	svc := &fakeStatsService{
		CategoryStatsFunc: func(_ context.Context, userID int64) ([]models.CategoryLearningStats, error) {
			require.Equal(t, int64(1), userID)
			return []models.CategoryLearningStats{
				{CategoryID: 10, Name: "Go", Total: 4, New: 1, FirstRepeat: 1, SecondRepeat: 1, Learned: 1},
			}, nil
		},
	}
	rec := httptest.NewRecorder()
	statsRouter(svc).ServeHTTP(rec, authedRequest(t, "GET", "/api/stats/categories", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"second_repeat":1`)
}

func TestStatsUser(t *testing.T) {
	svc := &fakeStatsService{
		UserStatsFunc: func(_ context.Context, userID int64) (*models.UserStats, error) {
			return &models.UserStats{UserID: userID, TotalReviewed: 10, Correct: 7, Incorrect: 3}, nil
		},
	}
	rec := httptest.NewRecorder()
	statsRouter(svc).ServeHTTP(rec, authedRequest(t, "GET", "/api/stats/user", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accuracy":0.7`)
}
