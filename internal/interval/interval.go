// Package interval holds the fixed spaced-repetition interval policy.
// All interval numbers live here and nowhere else, so changing the
// policy is a one-function edit.
package interval

import (
	"time"

	"github.com/avoronin/cardbox/internal/models"
)

// Review intervals in days for each status a card can enter.
const (
	firstRepeatDays  = 3
	secondRepeatDays = 5
	learnedDays      = 7
)

// Days returns the number of days until the next review for a card
// that has just entered status s. The second return value is false
// when the card is due immediately (no offset, no review date).
//
// The input is the new status after a transition, not the old one.
// Learned cards still get an interval; whether they are ever due again
// is the scheduler's decision, not the policy's.
func Days(s models.LearningStatus) (int, bool) {
	switch s {
	case models.StatusNew:
		return 0, false
	case models.StatusFirstRepeat:
		return firstRepeatDays, true
	case models.StatusSecondRepeat:
		return secondRepeatDays, true
	case models.StatusLearned:
		return learnedDays, true
	}
	// Unreachable for a valid LearningStatus.
	return 0, false
}

// NextReviewDate resolves the policy against a concrete clock: it
// returns now plus the interval for status s, or nil when the card is
// due immediately.
func NextReviewDate(s models.LearningStatus, now time.Time) *time.Time {
	days, ok := Days(s)
	if !ok {
		return nil
	}
	next := now.AddDate(0, 0, days)
	return &next
}
