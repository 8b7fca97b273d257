package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/avoronin/cardbox/internal/models"
)

// StatsRepository implements learning-statistics persistence against a
// PostgreSQL database. Category rollups are recomputed per read; the
// per-user counters are bumped in place so an evaluation stays O(1).
type StatsRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewStatsRepository creates a StatsRepository using the provided *sqlx.DB.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// GetCategoryStats computes per-category card counts by learning
// status for the user's cards. Categories without cards appear with
// zero counts.
func (r *StatsRepository) GetCategoryStats(ctx context.Context, userID int64) ([]models.CategoryLearningStats, error) {
	var stats []models.CategoryLearningStats
	err := r.DB.SelectContext(ctx, &stats, `
		SELECT c.id AS category_id, c.name,
		       COUNT(f.id) AS total,
		       COUNT(f.id) FILTER (WHERE f.learning_status = 0) AS "new",
		       COUNT(f.id) FILTER (WHERE f.learning_status = 1) AS first_repeat,
		       COUNT(f.id) FILTER (WHERE f.learning_status = 2) AS second_repeat,
		       COUNT(f.id) FILTER (WHERE f.learning_status = 3) AS learned
		FROM categories c
		LEFT JOIN flashcards f
		       ON f.category_id = c.id AND f.owner_id = $1 AND f.deleted = false
		GROUP BY c.id, c.name
		ORDER BY c.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get category stats: %w", err)
	}
	return stats, nil
}

// GetUserStats fetches the user's aggregate counters. A user who has
// never evaluated a card gets a zero-valued row, not an error.
func (r *StatsRepository) GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.DB.GetContext(ctx, &stats, `
		SELECT user_id, total_reviewed, correct, incorrect, updated_at
		FROM user_stats WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &stats, nil
}

// IncrementUserCounters bumps the user's aggregate counters for one
// evaluated answer, creating the row on first use.
func (r *StatsRepository) IncrementUserCounters(ctx context.Context, userID int64, wasCorrect bool) error {
	return incrementUserCounters(ctx, r.DB, userID, wasCorrect, time.Now())
}

// SaveSessionRecord persists the aggregate of one finished study session.
func (r *StatsRepository) SaveSessionRecord(ctx context.Context, rec models.StudySessionRecord) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO study_sessions (id, user_id, category_id, total, completed, correct, incorrect, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.UserID, rec.CategoryID, rec.Total, rec.Completed, rec.Correct, rec.Incorrect,
		rec.StartedAt, rec.EndedAt)
	if err != nil {
		return fmt.Errorf("save session record %s: %w", rec.ID, err)
	}
	return nil
}

// incrementUserCounters is shared with the evaluation transaction in
// flashcard.go, so the bump is identical on both paths.
func incrementUserCounters(ctx context.Context, ex sqlx.ExtContext, userID int64, wasCorrect bool, now time.Time) error {
	correct, incorrect := 0, 1
	if wasCorrect {
		correct, incorrect = 1, 0
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, total_reviewed, correct, incorrect, updated_at)
		VALUES ($1, 1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			total_reviewed = user_stats.total_reviewed + 1,
			correct = user_stats.correct + EXCLUDED.correct,
			incorrect = user_stats.incorrect + EXCLUDED.incorrect,
			updated_at = EXCLUDED.updated_at
	`, userID, correct, incorrect, now)
	if err != nil {
		return fmt.Errorf("increment counters for user %d: %w", userID, err)
	}
	return nil
}
