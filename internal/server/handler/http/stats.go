package http

import (
	"context"
	"net/http"

	"github.com/avoronin/cardbox/internal/middleware"
	"github.com/avoronin/cardbox/internal/models"
)

// StatsService defines the statistics operations required by the HTTP
// handlers.
type StatsService interface {
	CategoryStats(ctx context.Context, userID int64) ([]models.CategoryLearningStats, error)
	UserStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

// StatsHandler handles HTTP requests for learning statistics.
type StatsHandler struct {
	// StatsService performs the underlying statistics operations.
	StatsService StatsService
}

// Categories handles GET /api/stats/categories.
func (h *StatsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	stats, err := h.StatsService.CategoryStats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// User handles GET /api/stats/user. The accuracy is computed here so
// clients do not re-derive it.
func (h *StatsHandler) User(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	stats, err := h.StatsService.UserStats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		models.UserStats
		Accuracy float64 `json:"accuracy"`
	}{*stats, stats.Accuracy()})
}
