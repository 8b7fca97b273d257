package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avoronin/cardbox/internal/middleware"
	"github.com/avoronin/cardbox/internal/models"
)

// CardService defines the flashcard operations required by the HTTP
// handlers.
type CardService interface {
	Card(ctx context.Context, userID, cardID int64) (*models.Flashcard, error)
	CardsByCategory(ctx context.Context, userID, categoryID int64) ([]models.Flashcard, error)
	DueCards(ctx context.Context, userID, categoryID int64) ([]models.Flashcard, error)
	CreateCard(ctx context.Context, card *models.Flashcard) error
	UpdateCard(ctx context.Context, card *models.Flashcard) error
	DeleteCard(ctx context.Context, userID, cardID int64) error
	ResetCard(ctx context.Context, userID, cardID int64) error
	CopyCard(ctx context.Context, userID, cardID int64) (*models.Flashcard, error)
}

// CardHandler handles HTTP requests for flashcard management.
type CardHandler struct {
	// CardService performs the underlying card operations.
	CardService CardService
}

// CardRequest is the JSON payload for creating or updating a card.
type CardRequest struct {
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	Question   string `json:"question" validate:"required,min=1,max=2000"`
	Answer     string `json:"answer" validate:"required,min=1,max=2000"`
	Difficulty int    `json:"difficulty" validate:"required,min=1,max=5"`
	Public     bool   `json:"public"`
}

// Get handles GET /api/cards/{id}.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}
	card, err := h.CardService.Card(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// ListByCategory handles GET /api/categories/{id}/cards.
func (h *CardHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	categoryID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}
	cards, err := h.CardService.CardsByCategory(r.Context(), userID, categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// ListDue handles GET /api/categories/{id}/cards/due. Cards come back
// in study order.
func (h *CardHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	categoryID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}
	cards, err := h.CardService.DueCards(r.Context(), userID, categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// Create handles POST /api/cards.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	card := models.Flashcard{
		OwnerID:    userID,
		CategoryID: req.CategoryID,
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
		Public:     req.Public,
	}
	if err := h.CardService.CreateCard(r.Context(), &card); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// Update handles PUT /api/cards/{id}.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}
	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	card := models.Flashcard{
		ID:         id,
		OwnerID:    userID,
		CategoryID: req.CategoryID,
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
		Public:     req.Public,
	}
	if err := h.CardService.UpdateCard(r.Context(), &card); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Delete handles DELETE /api/cards/{id}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}
	if err := h.CardService.DeleteCard(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles POST /api/cards/{id}/reset, returning a card to
// status new so it is due again.
func (h *CardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}
	if err := h.CardService.ResetCard(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Copy handles POST /api/cards/{id}/copy, cloning a public card into
// the caller's collection.
func (h *CardHandler) Copy(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}
	clone, err := h.CardService.CopyCard(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}
