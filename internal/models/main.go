// Package models defines the core data structures for flashcards,
// categories, study sessions, and learning statistics.
package models

import "time"

// LearningStatus is the progress ladder a flashcard occupies.
// It is a closed enumeration: every switch over it must handle all
// four values, so adding a fifth status forces each site to be revisited.
type LearningStatus int

const (
	// StatusNew marks a card that has never been answered correctly.
	StatusNew LearningStatus = 0
	// StatusFirstRepeat marks a card answered correctly once in a row.
	StatusFirstRepeat LearningStatus = 1
	// StatusSecondRepeat marks a card answered correctly twice in a row.
	StatusSecondRepeat LearningStatus = 2
	// StatusLearned marks a card the user has fully learned.
	// Learned cards are never due until explicitly reset to StatusNew.
	StatusLearned LearningStatus = 3
)

// Valid reports whether s is one of the four defined statuses.
func (s LearningStatus) Valid() bool {
	return s >= StatusNew && s <= StatusLearned
}

// String returns a human-readable name for the status.
func (s LearningStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusFirstRepeat:
		return "first_repeat"
	case StatusSecondRepeat:
		return "second_repeat"
	case StatusLearned:
		return "learned"
	}
	return "unknown"
}

// Flashcard is a single question/answer card owned by a user.
type Flashcard struct {
	// ID is the unique identifier for the card.
	ID int64 `db:"id" json:"id"`
	// OwnerID identifies the user the card belongs to.
	OwnerID int64 `db:"owner_id" json:"owner_id"`
	// CategoryID identifies the category the card is filed under.
	CategoryID int64 `db:"category_id" json:"category_id"`
	// Question is the front side of the card.
	Question string `db:"question" json:"question"`
	// Answer is the back side of the card.
	Answer string `db:"answer" json:"answer"`
	// Difficulty is a user-assigned rating from 1 (easy) to 5 (hard).
	Difficulty int `db:"difficulty" json:"difficulty"`
	// LearningStatus is the card's position on the progress ladder.
	LearningStatus LearningStatus `db:"learning_status" json:"learning_status"`
	// NextReviewDate is when the card becomes due again.
	// Nil means the card is due right now.
	NextReviewDate *time.Time `db:"next_review_date" json:"next_review_date,omitempty"`
	// Public marks a card visible to other users for copying.
	Public bool `db:"public" json:"public"`
	// SourceID references the card this one was copied from, if any.
	SourceID *int64 `db:"source_id" json:"source_id,omitempty"`
	// CopyCount is how many times other users copied this card.
	CopyCount int `db:"copy_count" json:"copy_count"`
	// Deleted marks a soft-deleted card. Deleted cards never appear
	// in reads and are hard-removed by the background cleaner.
	Deleted bool `db:"deleted" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Category groups flashcards under a unique name.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CategoryLearningStats is a per-category rollup of card counts by
// learning status. It is always recomputed from flashcard rows and
// never persisted on its own.
type CategoryLearningStats struct {
	CategoryID   int64  `db:"category_id" json:"category_id"`
	Name         string `db:"name" json:"name"`
	Total        int    `db:"total" json:"total"`
	New          int    `db:"new" json:"new"`
	FirstRepeat  int    `db:"first_repeat" json:"first_repeat"`
	SecondRepeat int    `db:"second_repeat" json:"second_repeat"`
	Learned      int    `db:"learned" json:"learned"`
}

// UserStats is the per-user aggregate counter row. It is maintained
// incrementally, one bump per evaluation.
type UserStats struct {
	UserID        int64     `db:"user_id" json:"user_id"`
	TotalReviewed int       `db:"total_reviewed" json:"total_reviewed"`
	Correct       int       `db:"correct" json:"correct"`
	Incorrect     int       `db:"incorrect" json:"incorrect"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Accuracy returns the share of correct answers, 0 when nothing was reviewed.
func (u UserStats) Accuracy() float64 {
	if u.TotalReviewed == 0 {
		return 0
	}
	return float64(u.Correct) / float64(u.TotalReviewed)
}

// SessionStats tracks the running counters of one study session.
type SessionStats struct {
	// Total is the number of cards captured at session start.
	Total int `json:"total"`
	// Completed is how many cards have been evaluated so far.
	Completed int `json:"completed"`
	// Correct and Incorrect split Completed by answer outcome.
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	// StartedAt is when the session began.
	StartedAt time.Time `json:"started_at"`
	// EndedAt is set once, when the session completes or is ended.
	EndedAt *time.Time `json:"ended_at,omitempty"`
}

// Accuracy returns correct/completed, 0 when nothing was completed yet.
func (s SessionStats) Accuracy() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Completed)
}

// StudySessionRecord is the persisted aggregate of a finished session.
type StudySessionRecord struct {
	ID         string     `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	CategoryID int64      `db:"category_id" json:"category_id"`
	Total      int        `db:"total" json:"total"`
	Completed  int        `db:"completed" json:"completed"`
	Correct    int        `db:"correct" json:"correct"`
	Incorrect  int        `db:"incorrect" json:"incorrect"`
	StartedAt  time.Time  `db:"started_at" json:"started_at"`
	EndedAt    *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}
