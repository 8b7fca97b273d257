// Package session implements the study session state machine: one
// user's pass through a snapshot of due cards, with reveal, evaluate,
// advance, and end transitions.
//
// A session owns one canonical state value. Callers read it through
// State snapshots and may subscribe to Changes for a nudge after every
// transition; the state is never handed out by reference.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avoronin/cardbox/internal/models"
	"github.com/avoronin/cardbox/internal/scheduler"
)

// Persister is the persistence collaborator a session needs while it
// runs. ApplyEvaluation must atomically write the card's new status
// and date (conditionally, against the status the session last saw)
// and bump the owner's aggregate counters; a partial write is a
// contract violation.
type Persister interface {
	ApplyEvaluation(ctx context.Context, card models.Flashcard, newStatus models.LearningStatus, nextReview *time.Time, correct bool, now time.Time) error
	SaveSessionRecord(ctx context.Context, rec models.StudySessionRecord) error
}

// State is a read-only snapshot of a session after a transition.
type State struct {
	SessionID  string              `json:"session_id"`
	UserID     int64               `json:"user_id"`
	CategoryID int64               `json:"category_id"`
	Index      int                 `json:"index"`
	Revealed   bool                `json:"revealed"`
	Completed  bool                `json:"completed"`
	Current    *models.Flashcard   `json:"current,omitempty"`
	Stats      models.SessionStats `json:"stats"`
}

// Session drives a single user's study pass. It is exclusively owned
// by one in-flight session per user; the due-card set captured at
// start is immutable for the session's lifetime. All methods are safe
// for concurrent use: one mutex serializes transitions, and an
// in-flight evaluation blocks End until its persistence settles.
type Session struct {
	id         string
	userID     int64
	categoryID int64

	persister Persister
	// onMutate is invoked after a successfully persisted evaluation
	// with the card's post-transition value. The service hangs cache
	// invalidation off it.
	onMutate func(models.Flashcard)

	mu          sync.Mutex
	cond        *sync.Cond
	cards       []models.Flashcard
	index       int
	revealed    bool
	completed   bool
	evaluating  bool
	recordSaved bool
	stats       models.SessionStats

	changes chan struct{}
}

// New captures the due-card snapshot and starts a session at the first
// card with the answer hidden. It fails with ErrNoCardsDue when the
// snapshot is empty, leaving nothing started.
func New(userID, categoryID int64, cards []models.Flashcard, now time.Time, p Persister, onMutate func(models.Flashcard)) (*Session, error) {
	if len(cards) == 0 {
		return nil, models.ErrNoCardsDue
	}
	s := &Session{
		id:         uuid.New().String(),
		userID:     userID,
		categoryID: categoryID,
		persister:  p,
		onMutate:   onMutate,
		cards:      append([]models.Flashcard(nil), cards...),
		stats: models.SessionStats{
			Total:     len(cards),
			StartedAt: now,
		},
		changes: make(chan struct{}, 1),
	}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the owning user's identifier.
func (s *Session) UserID() int64 { return s.userID }

// Changes returns a channel that receives a nudge after every state
// transition. Consumers re-read State after each nudge; signals are
// coalesced, never buffered per transition.
func (s *Session) Changes() <-chan struct{} { return s.changes }

// State returns a snapshot of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Reveal marks the current card's answer as shown. Revealing twice is
// a no-op; revealing a completed session fails with ErrSessionCompleted.
func (s *Session) Reveal() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return s.snapshotLocked(), models.ErrSessionCompleted
	}
	if !s.revealed {
		s.revealed = true
		s.notifyLocked()
	}
	return s.snapshotLocked(), nil
}

// Evaluate records the user's answer for the current card. It requires
// a prior Reveal, refuses a second call while one is still persisting,
// and on success persists the transition, updates the running stats,
// and advances to the next card (or completes the session after the
// last one).
//
// On a persistence failure the session state is left exactly as it
// was, so a retry is always safe.
func (s *Session) Evaluate(ctx context.Context, correct bool, now time.Time) (State, error) {
	s.mu.Lock()
	if s.completed {
		st := s.snapshotLocked()
		s.mu.Unlock()
		return st, models.ErrSessionCompleted
	}
	if s.evaluating {
		st := s.snapshotLocked()
		s.mu.Unlock()
		return st, models.ErrEvaluationInFlight
	}
	if !s.revealed {
		st := s.snapshotLocked()
		s.mu.Unlock()
		return st, models.ErrAnswerNotRevealed
	}
	card := s.cards[s.index]
	s.evaluating = true
	s.mu.Unlock()

	// Pure transition first, then the single atomic persistence call.
	// The mutex is released during I/O so State() stays responsive.
	newStatus, nextReview := scheduler.ApplyAnswer(card, correct, now)
	err := s.persister.ApplyEvaluation(ctx, card, newStatus, nextReview, correct, now)

	s.mu.Lock()
	defer func() {
		s.cond.Broadcast()
		s.mu.Unlock()
	}()
	s.evaluating = false
	if err != nil {
		return s.snapshotLocked(), fmt.Errorf("persist evaluation: %w", err)
	}

	card.LearningStatus = newStatus
	card.NextReviewDate = nextReview
	card.UpdatedAt = now
	s.cards[s.index] = card

	s.stats.Completed++
	if correct {
		s.stats.Correct++
	} else {
		s.stats.Incorrect++
	}

	// Advance, or complete after the last card.
	if s.index+1 < len(s.cards) {
		s.index++
		s.revealed = false
	} else {
		s.completed = true
		end := now
		s.stats.EndedAt = &end
	}
	s.notifyLocked()

	if s.onMutate != nil {
		s.onMutate(card)
	}
	return s.snapshotLocked(), nil
}

// End forces the session into its terminal state and persists the
// session aggregate. Ending is idempotent: a session that already
// completed (by evaluating its last card) only persists its record on
// the first End. An End that arrives while an evaluation is in flight
// waits for the persistence to settle instead of discarding it.
func (s *Session) End(ctx context.Context, now time.Time) (State, error) {
	s.mu.Lock()
	for s.evaluating {
		s.cond.Wait()
	}
	if !s.completed {
		s.completed = true
		end := now
		s.stats.EndedAt = &end
		s.notifyLocked()
	}
	if s.recordSaved {
		st := s.snapshotLocked()
		s.mu.Unlock()
		return st, nil
	}
	rec := models.StudySessionRecord{
		ID:         s.id,
		UserID:     s.userID,
		CategoryID: s.categoryID,
		Total:      s.stats.Total,
		Completed:  s.stats.Completed,
		Correct:    s.stats.Correct,
		Incorrect:  s.stats.Incorrect,
		StartedAt:  s.stats.StartedAt,
		EndedAt:    s.stats.EndedAt,
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persister.SaveSessionRecord(ctx, rec); err != nil {
		return st, fmt.Errorf("save session record: %w", err)
	}

	s.mu.Lock()
	s.recordSaved = true
	s.mu.Unlock()
	return st, nil
}

// snapshotLocked builds a State copy. Callers must hold s.mu.
func (s *Session) snapshotLocked() State {
	st := State{
		SessionID:  s.id,
		UserID:     s.userID,
		CategoryID: s.categoryID,
		Index:      s.index,
		Revealed:   s.revealed,
		Completed:  s.completed,
		Stats:      s.stats,
	}
	if !s.completed {
		current := s.cards[s.index]
		st.Current = &current
	}
	return st
}

// notifyLocked coalesces a change signal. Callers must hold s.mu.
func (s *Session) notifyLocked() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
