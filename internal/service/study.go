// Package service provides the business logic for categories, cards,
// study sessions, and statistics, delegating persistence to repository
// interfaces and reading through the shared cache.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/avoronin/cardbox/internal/cache"
	"github.com/avoronin/cardbox/internal/models"
	"github.com/avoronin/cardbox/internal/scheduler"
	"github.com/avoronin/cardbox/internal/session"
)

// CardRepository defines the flashcard persistence operations required
// by the study service.
type CardRepository interface {
	// GetFlashcard fetches one card by id.
	GetFlashcard(ctx context.Context, id int64) (*models.Flashcard, error)
	// GetDueFlashcards fetches the user's due cards in a category at now.
	GetDueFlashcards(ctx context.Context, userID, categoryID int64, now time.Time) ([]models.Flashcard, error)
	// GetFlashcardsByCategory fetches all of the user's cards in a category.
	GetFlashcardsByCategory(ctx context.Context, userID, categoryID int64) ([]models.Flashcard, error)
	// CreateFlashcard inserts a new card and fills in generated fields.
	CreateFlashcard(ctx context.Context, card *models.Flashcard) error
	// UpdateFlashcard updates the owner's card.
	UpdateFlashcard(ctx context.Context, card *models.Flashcard) error
	// SoftDeleteFlashcard marks the owner's card as deleted.
	SoftDeleteFlashcard(ctx context.Context, id, ownerID int64) error
	// ResetLearningStatus returns the owner's card to status new.
	ResetLearningStatus(ctx context.Context, id, ownerID int64, now time.Time) error
	// CopyFlashcard clones a public card for another user.
	CopyFlashcard(ctx context.Context, cardID, newOwnerID int64) (*models.Flashcard, error)
	// ApplyEvaluation atomically persists one evaluated answer.
	ApplyEvaluation(ctx context.Context, card models.Flashcard, newStatus models.LearningStatus, nextReview *time.Time, correct bool, now time.Time) error
}

// CategoryRepository defines the category persistence operations
// required by the study service.
type CategoryRepository interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	RenameCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error
}

// SessionRecorder persists finished study session aggregates.
type SessionRecorder interface {
	SaveSessionRecord(ctx context.Context, rec models.StudySessionRecord) error
}

// StudyService orchestrates categories, cards, and study sessions. All
// list and single-entity reads go through the cache; every mutation
// invalidates exactly the keys it touches.
type StudyService struct {
	cards      CardRepository
	categories CategoryRepository
	recorder   SessionRecorder
	cache      *cache.Cache
	sessions   *session.Manager
	log        *zap.Logger

	// now is swapped out in tests to pin review dates.
	now func() time.Time
}

// NewStudyService constructs a StudyService over the given
// collaborators. log may not be nil; pass zap.NewNop() in tests.
func NewStudyService(cards CardRepository, categories CategoryRepository, recorder SessionRecorder, c *cache.Cache, log *zap.Logger) *StudyService {
	return &StudyService{
		cards:      cards,
		categories: categories,
		recorder:   recorder,
		cache:      c,
		sessions:   session.NewManager(),
		log:        log,
		now:        time.Now,
	}
}

// sessionPersister adapts the repositories to the session.Persister
// contract so the session package stays free of repository types.
type sessionPersister struct {
	cards    CardRepository
	recorder SessionRecorder
}

func (p sessionPersister) ApplyEvaluation(ctx context.Context, card models.Flashcard, newStatus models.LearningStatus, nextReview *time.Time, correct bool, now time.Time) error {
	return p.cards.ApplyEvaluation(ctx, card, newStatus, nextReview, correct, now)
}

func (p sessionPersister) SaveSessionRecord(ctx context.Context, rec models.StudySessionRecord) error {
	return p.recorder.SaveSessionRecord(ctx, rec)
}

// Categories returns all categories, cached under one key.
func (s *StudyService) Categories(ctx context.Context) ([]models.Category, error) {
	if v, ok := s.cache.Get(cache.CategoriesKey); ok {
		return cloneCategories(v.([]models.Category)), nil
	}
	categories, err := s.categories.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(cache.CategoriesKey, cloneCategories(categories))
	return categories, nil
}

// Category returns one category by id.
func (s *StudyService) Category(ctx context.Context, id int64) (*models.Category, error) {
	key := cache.CategoryKey(id)
	if v, ok := s.cache.Get(key); ok {
		category := v.(models.Category)
		return &category, nil
	}
	category, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, *category)
	return category, nil
}

// CreateCategory adds a category with a unique name.
func (s *StudyService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}
	if err := s.categories.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.CategoriesKey)
	return &category, nil
}

// RenameCategory changes a category's name. Category stats embed the
// name, so they are invalidated for every user.
func (s *StudyService) RenameCategory(ctx context.Context, id int64, name string) error {
	if err := s.categories.RenameCategory(ctx, id, name); err != nil {
		return err
	}
	s.cache.Invalidate(cache.CategoriesKey)
	s.cache.Invalidate(cache.CategoryKey(id))
	s.cache.InvalidatePrefix(cache.PrefixCategoryStats)
	return nil
}

// DeleteCategory removes a category and, through the database cascade,
// every card in it. The blast radius spans users, so the card and
// stats prefixes are dropped whole.
func (s *StudyService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(cache.CategoriesKey)
	s.cache.Invalidate(cache.CategoryKey(id))
	s.cache.InvalidatePrefix(cache.PrefixFlashcard)
	s.cache.InvalidatePrefix(cache.PrefixFlashcards)
	s.cache.InvalidatePrefix(cache.PrefixCategoryStats)
	return nil
}

// Card returns one card by id. The caller may see a card they own or
// any public card; everything else is ErrUnauthorizedCardAccess.
func (s *StudyService) Card(ctx context.Context, userID, cardID int64) (*models.Flashcard, error) {
	card, err := s.cachedCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != userID && !card.Public {
		return nil, models.ErrUnauthorizedCardAccess
	}
	return card, nil
}

// CardsByCategory returns all of the user's cards in a category,
// cached per user and category.
func (s *StudyService) CardsByCategory(ctx context.Context, userID, categoryID int64) ([]models.Flashcard, error) {
	return s.cachedCards(ctx, userID, categoryID)
}

// DueCards returns the user's currently due cards in study order:
// highest learning status first, then oldest review date, with
// never-scheduled cards ahead of dated ones.
func (s *StudyService) DueCards(ctx context.Context, userID, categoryID int64) ([]models.Flashcard, error) {
	cards, err := s.cachedCards(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	return scheduler.DueCards(cards, s.now()), nil
}

// CreateCard files a new card under an existing category. The card
// starts at status new and is due immediately.
func (s *StudyService) CreateCard(ctx context.Context, card *models.Flashcard) error {
	if _, err := s.Category(ctx, card.CategoryID); err != nil {
		return err
	}
	if err := s.cards.CreateFlashcard(ctx, card); err != nil {
		return err
	}
	s.invalidateUserCards(card.OwnerID)
	return nil
}

// UpdateCard updates the editable fields of the user's card.
func (s *StudyService) UpdateCard(ctx context.Context, card *models.Flashcard) error {
	if card.CategoryID != 0 {
		if _, err := s.Category(ctx, card.CategoryID); err != nil {
			return err
		}
	}
	if err := s.cards.UpdateFlashcard(ctx, card); err != nil {
		return err
	}
	s.cache.Invalidate(cache.FlashcardKey(card.ID))
	// The update may have moved the card between categories.
	s.cache.Invalidate(cache.CategoriesKey)
	s.cache.Invalidate(cache.CategoryKey(card.CategoryID))
	s.invalidateUserCards(card.OwnerID)
	return nil
}

// DeleteCard soft-deletes the user's card. The row disappears from all
// reads at once; the background cleaner removes it for good later.
func (s *StudyService) DeleteCard(ctx context.Context, userID, cardID int64) error {
	if err := s.cards.SoftDeleteFlashcard(ctx, cardID, userID); err != nil {
		return err
	}
	s.cache.Invalidate(cache.FlashcardKey(cardID))
	s.invalidateUserCards(userID)
	return nil
}

// ResetCard returns the user's card to status new with no review date,
// making it due immediately. This is the only way back from learned.
func (s *StudyService) ResetCard(ctx context.Context, userID, cardID int64) error {
	if err := s.cards.ResetLearningStatus(ctx, cardID, userID, s.now()); err != nil {
		return err
	}
	s.cache.Invalidate(cache.FlashcardKey(cardID))
	s.invalidateUserCards(userID)
	return nil
}

// CopyCard clones a public card into the user's collection. The clone
// starts fresh at status new; the source's copy counter goes up.
func (s *StudyService) CopyCard(ctx context.Context, userID, cardID int64) (*models.Flashcard, error) {
	clone, err := s.cards.CopyFlashcard(ctx, cardID, userID)
	if err != nil {
		return nil, err
	}
	// The source's copy count changed too.
	s.cache.Invalidate(cache.FlashcardKey(cardID))
	s.invalidateUserCards(userID)
	return clone, nil
}

// StartSession begins a study session over a fresh snapshot of the
// user's due cards in the category, ordered for study. A session the
// user already had is replaced. Fails with ErrNoCardsDue when nothing
// is due.
func (s *StudyService) StartSession(ctx context.Context, userID, categoryID int64) (session.State, error) {
	if _, err := s.Category(ctx, categoryID); err != nil {
		return session.State{}, err
	}
	now := s.now()

	// The snapshot is read fresh from the database, not the cache: a
	// session must start from the cards' persisted statuses.
	due, err := s.cards.GetDueFlashcards(ctx, userID, categoryID, now)
	if err != nil {
		return session.State{}, fmt.Errorf("load due cards: %w", err)
	}
	due = scheduler.DueCards(due, now)

	p := sessionPersister{cards: s.cards, recorder: s.recorder}
	sess, err := session.New(userID, categoryID, due, now, p, func(card models.Flashcard) {
		s.cache.Invalidate(cache.FlashcardKey(card.ID))
		s.cache.Invalidate(cache.FlashcardsKey(userID, card.CategoryID))
		s.cache.Invalidate(cache.CategoryStatsKey(userID))
		s.cache.Invalidate(cache.UserStatsKey(userID))
	})
	if err != nil {
		return session.State{}, err
	}
	s.sessions.Put(userID, sess)
	s.log.Info("study session started",
		zap.String("session_id", sess.ID()),
		zap.Int64("user_id", userID),
		zap.Int64("category_id", categoryID),
		zap.Int("cards", len(due)),
	)
	return sess.State(), nil
}

// SessionState returns the user's active session snapshot.
func (s *StudyService) SessionState(userID int64) (session.State, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.State{}, err
	}
	return sess.State(), nil
}

// RevealAnswer shows the answer of the current card in the user's
// active session.
func (s *StudyService) RevealAnswer(userID int64) (session.State, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.State{}, err
	}
	return sess.Reveal()
}

// EvaluateAnswer records whether the user answered the current card
// correctly, persists the card's transition, and advances the session.
func (s *StudyService) EvaluateAnswer(ctx context.Context, userID int64, correct bool) (session.State, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.State{}, err
	}
	return sess.Evaluate(ctx, correct, s.now())
}

// EndSession ends the user's active session, persists its aggregate
// record, and forgets it. Looking the session up afterwards yields
// ErrNoActiveSession.
func (s *StudyService) EndSession(ctx context.Context, userID int64) (session.State, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.State{}, err
	}
	st, err := sess.End(ctx, s.now())
	if err != nil {
		return st, err
	}
	s.sessions.Remove(userID)
	s.log.Info("study session ended",
		zap.String("session_id", st.SessionID),
		zap.Int64("user_id", userID),
		zap.Int("completed", st.Stats.Completed),
		zap.Int("total", st.Stats.Total),
	)
	return st, nil
}

// cachedCard reads one card through the cache.
func (s *StudyService) cachedCard(ctx context.Context, cardID int64) (*models.Flashcard, error) {
	key := cache.FlashcardKey(cardID)
	if v, ok := s.cache.Get(key); ok {
		card := v.(models.Flashcard)
		return &card, nil
	}
	card, err := s.cards.GetFlashcard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, *card)
	return card, nil
}

// cachedCards reads a user's category card list through the cache.
// Cached slices are cloned on both sides so callers never alias the
// cache's copy.
func (s *StudyService) cachedCards(ctx context.Context, userID, categoryID int64) ([]models.Flashcard, error) {
	key := cache.FlashcardsKey(userID, categoryID)
	if v, ok := s.cache.Get(key); ok {
		return cloneCards(v.([]models.Flashcard)), nil
	}
	cards, err := s.cards.GetFlashcardsByCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(key, cloneCards(cards))
	return cards, nil
}

// invalidateUserCards drops every card list the user has cached, in
// any category, plus the stats derived from them.
func (s *StudyService) invalidateUserCards(userID int64) {
	s.cache.InvalidatePrefix(fmt.Sprintf("%s%d:", cache.PrefixFlashcards, userID))
	s.cache.Invalidate(cache.CategoryStatsKey(userID))
}

func cloneCards(cards []models.Flashcard) []models.Flashcard {
	return append([]models.Flashcard(nil), cards...)
}

func cloneCategories(categories []models.Category) []models.Category {
	return append([]models.Category(nil), categories...)
}
