package models

import "errors"

// Domain error values shared across the service, session, and
// repository layers. Handlers map them to HTTP status codes; callers
// distinguish them with errors.Is. Persistence failures are wrapped
// with %w and are anything that is none of these.
var (
	// ErrNoCardsDue is returned when a study session is started for a
	// category that has no due cards. Recoverable and user-visible.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrAnswerNotRevealed is returned when an answer is evaluated
	// before it was revealed. The session state is left unchanged.
	ErrAnswerNotRevealed = errors.New("answer not revealed")

	// ErrEvaluationInFlight is returned when a second evaluation
	// arrives while the first one is still being persisted.
	ErrEvaluationInFlight = errors.New("evaluation already in flight")

	// ErrNoActiveSession is returned when a session operation is
	// invoked for a user without an in-progress session.
	ErrNoActiveSession = errors.New("no active study session")

	// ErrSessionCompleted is returned when a session operation is
	// invoked after the session reached its terminal state.
	ErrSessionCompleted = errors.New("study session already completed")

	// ErrUnauthorizedCardAccess is returned when a card's owner does
	// not match the acting user. It short-circuits before any mutation.
	ErrUnauthorizedCardAccess = errors.New("card does not belong to user")

	// ErrCardNotFound is returned for ids referencing a missing or
	// deleted card. The caller should refresh and retry.
	ErrCardNotFound = errors.New("flashcard not found")

	// ErrCardConflict is returned when a conditional status update
	// lost a race with a concurrent evaluation of the same card.
	ErrCardConflict = errors.New("flashcard was modified concurrently")

	// ErrCategoryNotFound is returned for ids referencing a missing category.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryExists is returned when a category name is already taken.
	ErrCategoryExists = errors.New("category name already exists")
)
