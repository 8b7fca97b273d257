// Package jobs runs the engine's periodic maintenance: sweeping
// expired cache entries and hard-removing soft-deleted cards.
package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/avoronin/cardbox/internal/cache"
	"github.com/avoronin/cardbox/internal/db"
)

// Jobs owns the background schedule. Neither job affects correctness:
// the cache refuses stale entries on read, and soft-deleted cards are
// already invisible. The jobs only reclaim space.
type Jobs struct {
	scheduler *gocron.Scheduler
	database  *sqlx.DB
	cache     *cache.Cache
	retention time.Duration
	log       *zap.Logger
}

// New creates the job runner. retention is how long a soft-deleted
// card lingers before the cleaner removes its row.
func New(database *sqlx.DB, c *cache.Cache, retention time.Duration, log *zap.Logger) *Jobs {
	return &Jobs{
		scheduler: gocron.NewScheduler(time.UTC),
		database:  database,
		cache:     c,
		retention: retention,
		log:       log,
	}
}

// Start registers the jobs and runs the schedule asynchronously.
func (j *Jobs) Start(ctx context.Context) {
	j.scheduler.Every(1).Minute().Do(func() {
		if removed := j.cache.DeleteExpired(); removed > 0 {
			j.log.Debug("swept expired cache entries", zap.Int("removed", removed))
		}
	})
	j.scheduler.Every(1).Hour().Do(func() {
		db.CleanDeletedFlashcards(ctx, j.database, j.retention, j.log)
	})
	j.scheduler.StartAsync()
}

// Stop halts the schedule. Running jobs finish their current sweep.
func (j *Jobs) Stop() {
	j.scheduler.Stop()
}
