package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avoronin/cardbox/internal/middleware"
	"github.com/avoronin/cardbox/internal/session"
)

// StudyService defines the session operations required by the HTTP
// handlers. Every call is scoped to the authenticated user's single
// active session.
type StudyService interface {
	StartSession(ctx context.Context, userID, categoryID int64) (session.State, error)
	SessionState(userID int64) (session.State, error)
	RevealAnswer(userID int64) (session.State, error)
	EvaluateAnswer(ctx context.Context, userID int64, correct bool) (session.State, error)
	EndSession(ctx context.Context, userID int64) (session.State, error)
}

// StudyHandler handles HTTP requests for the study session lifecycle.
type StudyHandler struct {
	// StudyService performs the underlying session operations.
	StudyService StudyService
}

// StartRequest is the JSON payload for starting a session.
type StartRequest struct {
	CategoryID int64 `json:"category_id" validate:"required,gt=0"`
}

// EvaluateRequest is the JSON payload for evaluating the current card.
// Correct is a pointer so an absent field is rejected rather than
// silently counted as incorrect.
type EvaluateRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// Start handles POST /api/study. Starting while another session is
// active replaces it.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	state, err := h.StudyService.StartSession(r.Context(), userID, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// State handles GET /api/study.
func (h *StudyHandler) State(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	state, err := h.StudyService.SessionState(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Reveal handles POST /api/study/reveal.
func (h *StudyHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	state, err := h.StudyService.RevealAnswer(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Evaluate handles POST /api/study/evaluate.
func (h *StudyHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	state, err := h.StudyService.EvaluateAnswer(r.Context(), userID, *req.Correct)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// End handles POST /api/study/end.
func (h *StudyHandler) End(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	state, err := h.StudyService.EndSession(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
