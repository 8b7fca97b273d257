// Package repository provides persistence implementations for the
// flashcard engine using a PostgreSQL database.
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

const cardColumns = `id, owner_id, category_id, question, answer, difficulty, learning_status,
	next_review_date, public, source_id, copy_count, deleted, created_at, updated_at`

// FlashcardRepository implements flashcard persistence against a
// PostgreSQL database.
type FlashcardRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sqlx.DB
}

// NewFlashcardRepository creates a FlashcardRepository using the provided *sqlx.DB.
func NewFlashcardRepository(db *sqlx.DB) *FlashcardRepository {
	return &FlashcardRepository{DB: db}
}

// GetFlashcard fetches a single card by id, excluding soft-deleted
// rows. Returns models.ErrCardNotFound when no such card exists.
func (r *FlashcardRepository) GetFlashcard(ctx context.Context, id int64) (*models.Flashcard, error) {
	var card models.Flashcard
	err := r.DB.GetContext(ctx, &card, `
		SELECT `+cardColumns+` FROM flashcards WHERE id = $1 AND deleted = false
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flashcard %d: %w", id, err)
	}
	return &card, nil
}

// GetDueFlashcards fetches the user's cards in a category that are due
// at now: not learned, and with an absent or elapsed review date. The
// study ordering is applied by the scheduler, not here.
func (r *FlashcardRepository) GetDueFlashcards(ctx context.Context, userID, categoryID int64, now time.Time) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := r.DB.SelectContext(ctx, &cards, `
		SELECT `+cardColumns+` FROM flashcards
		WHERE owner_id = $1 AND category_id = $2 AND deleted = false
		  AND learning_status < $3
		  AND (next_review_date IS NULL OR next_review_date <= $4)
	`, userID, categoryID, models.StatusLearned, now)
	if err != nil {
		return nil, fmt.Errorf("get due flashcards: %w", err)
	}
	return cards, nil
}

// GetFlashcardsByCategory fetches all of the user's cards in a category.
func (r *FlashcardRepository) GetFlashcardsByCategory(ctx context.Context, userID, categoryID int64) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := r.DB.SelectContext(ctx, &cards, `
		SELECT `+cardColumns+` FROM flashcards
		WHERE owner_id = $1 AND category_id = $2 AND deleted = false
		ORDER BY id
	`, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get flashcards by category: %w", err)
	}
	return cards, nil
}

// CreateFlashcard inserts a new card and fills in its generated id and
// timestamps. New cards always start at status new with no review date.
func (r *FlashcardRepository) CreateFlashcard(ctx context.Context, card *models.Flashcard) error {
	err := r.DB.QueryRowxContext(ctx, `
		INSERT INTO flashcards (owner_id, category_id, question, answer, difficulty, learning_status, public, source_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, card.OwnerID, card.CategoryID, card.Question, card.Answer, card.Difficulty,
		models.StatusNew, card.Public, card.SourceID,
	).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create flashcard: %w", err)
	}
	card.LearningStatus = models.StatusNew
	card.NextReviewDate = nil
	return nil
}

// UpdateFlashcard updates the card's editable fields for its owner.
// Returns models.ErrCardNotFound when the card does not exist, is
// deleted, or belongs to someone else.
func (r *FlashcardRepository) UpdateFlashcard(ctx context.Context, card *models.Flashcard) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE flashcards
		SET question = $1, answer = $2, difficulty = $3, public = $4, category_id = $5, updated_at = $6
		WHERE id = $7 AND owner_id = $8 AND deleted = false
	`, card.Question, card.Answer, card.Difficulty, card.Public, card.CategoryID,
		time.Now(), card.ID, card.OwnerID)
	if err != nil {
		return fmt.Errorf("update flashcard %d: %w", card.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update flashcard %d: rows affected: %w", card.ID, err)
	}
	if rows == 0 {
		return models.ErrCardNotFound
	}
	return nil
}

// SoftDeleteFlashcard marks the owner's card as deleted. The row stays
// around until the background cleaner removes it.
func (r *FlashcardRepository) SoftDeleteFlashcard(ctx context.Context, id, ownerID int64) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE flashcards SET deleted = true, updated_at = $1
		WHERE id = $2 AND owner_id = $3 AND deleted = false
	`, time.Now(), id, ownerID)
	if err != nil {
		return fmt.Errorf("delete flashcard %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete flashcard %d: rows affected: %w", id, err)
	}
	if rows == 0 {
		return models.ErrCardNotFound
	}
	return nil
}

// ResetLearningStatus restores the owner's card to status new with an
// immediate review date. This is the explicit learned-to-new path.
func (r *FlashcardRepository) ResetLearningStatus(ctx context.Context, id, ownerID int64, now time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE flashcards SET learning_status = $1, next_review_date = NULL, updated_at = $2
		WHERE id = $3 AND owner_id = $4 AND deleted = false
	`, models.StatusNew, now, id, ownerID)
	if err != nil {
		return fmt.Errorf("reset flashcard %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset flashcard %d: rows affected: %w", id, err)
	}
	if rows == 0 {
		return models.ErrCardNotFound
	}
	return nil
}

// CopyFlashcard clones a public card for another user inside one
// transaction: the clone starts fresh at status new, records the
// source id, and the source's copy counter is incremented.
func (r *FlashcardRepository) CopyFlashcard(ctx context.Context, cardID, newOwnerID int64) (*models.Flashcard, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var source models.Flashcard
	err = tx.GetContext(ctx, &source, `
		SELECT `+cardColumns+` FROM flashcards WHERE id = $1 AND deleted = false FOR UPDATE
	`, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load source card %d: %w", cardID, err)
	}
	if !source.Public && source.OwnerID != newOwnerID {
		return nil, models.ErrUnauthorizedCardAccess
	}

	clone := models.Flashcard{
		OwnerID:    newOwnerID,
		CategoryID: source.CategoryID,
		Question:   source.Question,
		Answer:     source.Answer,
		Difficulty: source.Difficulty,
		SourceID:   &source.ID,
	}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO flashcards (owner_id, category_id, question, answer, difficulty, learning_status, public, source_id)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
		RETURNING id, created_at, updated_at
	`, clone.OwnerID, clone.CategoryID, clone.Question, clone.Answer, clone.Difficulty,
		models.StatusNew, clone.SourceID,
	).Scan(&clone.ID, &clone.CreatedAt, &clone.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert copy of card %d: %w", cardID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE flashcards SET copy_count = copy_count + 1 WHERE id = $1
	`, cardID); err != nil {
		return nil, fmt.Errorf("bump copy count of card %d: %w", cardID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit copy: %w", err)
	}
	return &clone, nil
}

// UpdateLearningStatus performs the conditional status write: the row
// changes only if the card still holds the status the caller last
// read. Zero affected rows resolves to ErrCardNotFound when the card
// is gone, or ErrCardConflict when a concurrent evaluation won the
// race; either way no update is lost silently.
func (r *FlashcardRepository) UpdateLearningStatus(ctx context.Context, id int64, oldStatus, newStatus models.LearningStatus, nextReview *time.Time, now time.Time) error {
	return updateLearningStatus(ctx, r.DB, id, oldStatus, newStatus, nextReview, now)
}

// ApplyEvaluation persists one answer atomically: the card's
// conditional status update and the owner's counter bump commit or
// roll back together, so a failure never leaves a half-applied
// evaluation behind.
func (r *FlashcardRepository) ApplyEvaluation(ctx context.Context, card models.Flashcard, newStatus models.LearningStatus, nextReview *time.Time, correct bool, now time.Time) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := updateLearningStatus(ctx, tx, card.ID, card.LearningStatus, newStatus, nextReview, now); err != nil {
		return err
	}
	if err := incrementUserCounters(ctx, tx, card.OwnerID, correct, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit evaluation: %w", err)
	}
	return nil
}

func updateLearningStatus(ctx context.Context, ex sqlx.ExtContext, id int64, oldStatus, newStatus models.LearningStatus, nextReview *time.Time, now time.Time) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE flashcards SET learning_status = $1, next_review_date = $2, updated_at = $3
		WHERE id = $4 AND learning_status = $5 AND deleted = false
	`, newStatus, nextReview, now, id, oldStatus)
	if err != nil {
		return fmt.Errorf("update learning status of card %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update learning status of card %d: rows affected: %w", id, err)
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	err = sqlx.GetContext(ctx, ex, &exists, `
		SELECT EXISTS(SELECT 1 FROM flashcards WHERE id = $1 AND deleted = false)
	`, id)
	if err != nil {
		return fmt.Errorf("check card %d: %w", id, err)
	}
	if !exists {
		return models.ErrCardNotFound
	}
	return models.ErrCardConflict
}
