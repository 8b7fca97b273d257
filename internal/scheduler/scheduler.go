// Package scheduler decides which flashcards are due, orders the due
// set for a study pass, and computes learning-status transitions.
// Every function here is pure: the scheduler never touches persistence
// and never fails on valid input. Authorization is the caller's job.
package scheduler

import (
	"sort"
	"time"

	"github.com/avoronin/cardbox/internal/interval"
	"github.com/avoronin/cardbox/internal/models"
)

// IsDue reports whether the card is eligible for review at now.
// A card is due iff it is not yet learned and its review date is
// absent or has passed. Learned cards are never due.
func IsDue(card models.Flashcard, now time.Time) bool {
	if card.LearningStatus >= models.StatusLearned {
		return false
	}
	if card.NextReviewDate == nil {
		return true
	}
	return !card.NextReviewDate.After(now)
}

// DueCards filters cards by the due predicate and orders the result
// for a study pass: learning status descending, then next review date
// ascending, with dateless cards first within a status group. The
// most advanced, longest-overdue cards come first and brand-new cards
// close the set.
//
// The input slice is not modified; the result is a fresh slice.
func DueCards(cards []models.Flashcard, now time.Time) []models.Flashcard {
	var due []models.Flashcard
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if a.LearningStatus != b.LearningStatus {
			return a.LearningStatus > b.LearningStatus
		}
		switch {
		case a.NextReviewDate == nil && b.NextReviewDate == nil:
			return false
		case a.NextReviewDate == nil:
			return true
		case b.NextReviewDate == nil:
			return false
		}
		return a.NextReviewDate.Before(*b.NextReviewDate)
	})

	return due
}

// ApplyAnswer computes the card's new learning status and next review
// date after an evaluation. A correct answer advances the status one
// step (capped at learned) and schedules the next review via the
// interval policy. An incorrect answer regresses the card to new with
// an immediate review, regardless of where it was.
//
// A correct answer on an already-learned card changes nothing:
// learned is a ceiling, not a cycle.
func ApplyAnswer(card models.Flashcard, correct bool, now time.Time) (models.LearningStatus, *time.Time) {
	if !correct {
		return models.StatusNew, nil
	}
	if card.LearningStatus >= models.StatusLearned {
		return models.StatusLearned, card.NextReviewDate
	}
	newStatus := card.LearningStatus + 1
	return newStatus, interval.NextReviewDate(newStatus, now)
}
