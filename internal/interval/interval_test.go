package interval

import (
	"testing"
	"time"

	"github.com/avoronin/cardbox/internal/models"
)

func TestDays(t *testing.T) {
	tests := []struct {
		status models.LearningStatus
		days   int
		ok     bool
	}{
		{models.StatusNew, 0, false},
		{models.StatusFirstRepeat, 3, true},
		{models.StatusSecondRepeat, 5, true},
		{models.StatusLearned, 7, true},
	}
	for _, tt := range tests {
		days, ok := Days(tt.status)
		if days != tt.days || ok != tt.ok {
			t.Errorf("Days(%v) = (%d, %v); want (%d, %v)", tt.status, days, ok, tt.days, tt.ok)
		}
	}
}

func TestNextReviewDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := NextReviewDate(models.StatusNew, now); got != nil {
		t.Errorf("NextReviewDate(StatusNew) = %v; want nil", got)
	}

	tests := []struct {
		status models.LearningStatus
		want   time.Time
	}{
		{models.StatusFirstRepeat, now.AddDate(0, 0, 3)},
		{models.StatusSecondRepeat, now.AddDate(0, 0, 5)},
		{models.StatusLearned, now.AddDate(0, 0, 7)},
	}
	for _, tt := range tests {
		got := NextReviewDate(tt.status, now)
		if got == nil {
			t.Fatalf("NextReviewDate(%v) = nil; want %v", tt.status, tt.want)
		}
		if !got.Equal(tt.want) {
			t.Errorf("NextReviewDate(%v) = %v; want %v", tt.status, got, tt.want)
		}
	}
}
