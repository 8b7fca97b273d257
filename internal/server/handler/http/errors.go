// Package http provides the HTTP handlers and routing for the
// flashcard study engine's API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avoronin/cardbox/internal/models"
)

// writeError maps domain errors onto HTTP statuses. Anything
// unrecognized is an internal error and stays opaque to the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrCardNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrNoActiveSession):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrUnauthorizedCardAccess):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrNoCardsDue),
		errors.Is(err, models.ErrAnswerNotRevealed),
		errors.Is(err, models.ErrEvaluationInFlight),
		errors.Is(err, models.ErrSessionCompleted),
		errors.Is(err, models.ErrCategoryExists),
		errors.Is(err, models.ErrCardConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON encodes v with the JSON content type and the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
