package scheduler

import (
	"testing"
	"time"

	"github.com/avoronin/cardbox/internal/models"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func card(status models.LearningStatus, next *time.Time) models.Flashcard {
	return models.Flashcard{
		ID:             1,
		LearningStatus: status,
		NextReviewDate: next,
	}
}

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func TestIsDue(t *testing.T) {
	tests := []struct {
		name string
		card models.Flashcard
		want bool
	}{
		{"new card without date is always due", card(models.StatusNew, nil), true},
		{"second repeat overdue since yesterday", card(models.StatusSecondRepeat, at(-24*time.Hour)), true},
		{"second repeat due tomorrow is not due", card(models.StatusSecondRepeat, at(24*time.Hour)), false},
		{"due exactly now counts as due", card(models.StatusFirstRepeat, at(0)), true},
		{"learned card is never due", card(models.StatusLearned, at(-24*time.Hour)), false},
		{"learned card without date is never due", card(models.StatusLearned, nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.card, testNow); got != tt.want {
				t.Errorf("IsDue = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestDueCards_Ordering(t *testing.T) {
	cards := []models.Flashcard{
		{ID: 1, LearningStatus: models.StatusNew},
		{ID: 2, LearningStatus: models.StatusFirstRepeat, NextReviewDate: at(-24 * time.Hour)},
		{ID: 3, LearningStatus: models.StatusSecondRepeat, NextReviewDate: at(-48 * time.Hour)},
		{ID: 4, LearningStatus: models.StatusLearned, NextReviewDate: at(-72 * time.Hour)},
		{ID: 5, LearningStatus: models.StatusSecondRepeat, NextReviewDate: at(-24 * time.Hour)},
		{ID: 6, LearningStatus: models.StatusSecondRepeat},
	}

	due := DueCards(cards, testNow)

	// Learned card 4 is excluded; highest status first, dateless first
	// within a group, then most overdue first.
	wantOrder := []int64{6, 3, 5, 2, 1}
	if len(due) != len(wantOrder) {
		t.Fatalf("got %d due cards; want %d", len(due), len(wantOrder))
	}
	for i, id := range wantOrder {
		if due[i].ID != id {
			t.Errorf("due[%d].ID = %d; want %d (full order %v)", i, due[i].ID, id, ids(due))
		}
	}
}

func TestDueCards_ExcludesNotYetDue(t *testing.T) {
	cards := []models.Flashcard{
		{ID: 1, LearningStatus: models.StatusFirstRepeat, NextReviewDate: at(time.Hour)},
	}
	if due := DueCards(cards, testNow); len(due) != 0 {
		t.Errorf("expected empty due set, got %v", ids(due))
	}
}

func TestApplyAnswer_CorrectAdvances(t *testing.T) {
	wantDays := map[models.LearningStatus]int{
		models.StatusFirstRepeat:  3,
		models.StatusSecondRepeat: 5,
		models.StatusLearned:      7,
	}
	for s := models.StatusNew; s < models.StatusLearned; s++ {
		status, next := ApplyAnswer(card(s, nil), true, testNow)
		if status != s+1 {
			t.Errorf("ApplyAnswer(%v, correct) status = %v; want %v", s, status, s+1)
		}
		if next == nil {
			t.Fatalf("ApplyAnswer(%v, correct) next = nil; want a date", s)
		}
		want := testNow.AddDate(0, 0, wantDays[s+1])
		if !next.Equal(want) {
			t.Errorf("ApplyAnswer(%v, correct) next = %v; want %v", s, next, want)
		}
	}
}

func TestApplyAnswer_LearnedIsCeiling(t *testing.T) {
	existing := at(48 * time.Hour)
	status, next := ApplyAnswer(card(models.StatusLearned, existing), true, testNow)
	if status != models.StatusLearned {
		t.Errorf("status = %v; want learned", status)
	}
	if next != existing {
		t.Errorf("next = %v; want unchanged %v", next, existing)
	}
}

func TestApplyAnswer_IncorrectResets(t *testing.T) {
	for s := models.StatusNew; s <= models.StatusLearned; s++ {
		status, next := ApplyAnswer(card(s, at(time.Hour)), false, testNow)
		if status != models.StatusNew {
			t.Errorf("ApplyAnswer(%v, incorrect) status = %v; want new", s, status)
		}
		if next != nil {
			t.Errorf("ApplyAnswer(%v, incorrect) next = %v; want nil", s, next)
		}
	}
}

func ids(cards []models.Flashcard) []int64 {
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
