package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CleanDeletedFlashcards hard-removes soft-deleted cards whose deletion
// is older than retention. One invocation does one sweep; the jobs
// package schedules it.
func CleanDeletedFlashcards(ctx context.Context, database *sqlx.DB, retention time.Duration, log *zap.Logger) {
	cutoff := time.Now().Add(-retention)
	res, err := database.ExecContext(ctx, `
        DELETE FROM flashcards
         WHERE deleted = true
           AND updated_at < $1
    `, cutoff)
	if err != nil {
		log.Error("failed to clean soft-deleted flashcards", zap.Error(err))
		return
	}
	if rows, _ := res.RowsAffected(); rows > 0 {
		log.Info("cleaned soft-deleted flashcards", zap.Int64("removed", rows))
	}
}
