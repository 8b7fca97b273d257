package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avoronin/cardbox/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// flashcard API. It applies JSON content-type enforcement, request
// logging, and caller identification, and mounts the category, card,
// study, and statistics endpoints under /api.
//
// Routes:
//
//	GET    /api/categories            → categoryHandler.List
//	POST   /api/categories            → categoryHandler.Create
//	GET    /api/categories/{id}       → categoryHandler.Get
//	PUT    /api/categories/{id}       → categoryHandler.Rename
//	DELETE /api/categories/{id}       → categoryHandler.Delete
//	GET    /api/categories/{id}/cards     → cardHandler.ListByCategory
//	GET    /api/categories/{id}/cards/due → cardHandler.ListDue
//	POST   /api/cards                 → cardHandler.Create
//	GET    /api/cards/{id}            → cardHandler.Get
//	PUT    /api/cards/{id}            → cardHandler.Update
//	DELETE /api/cards/{id}            → cardHandler.Delete
//	POST   /api/cards/{id}/copy       → cardHandler.Copy
//	POST   /api/cards/{id}/reset      → cardHandler.Reset
//	POST   /api/study                 → studyHandler.Start
//	GET    /api/study                 → studyHandler.State
//	POST   /api/study/reveal          → studyHandler.Reveal
//	POST   /api/study/evaluate        → studyHandler.Evaluate
//	POST   /api/study/end             → studyHandler.End
//	GET    /api/stats/categories      → statsHandler.Categories
//	GET    /api/stats/user            → statsHandler.User
func NewRouter(
	categoryHandler *CategoryHandler,
	cardHandler *CardHandler,
	studyHandler *StudyHandler,
	statsHandler *StatsHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Resolve the caller's identity before any handler runs
	r.Use(middleware.Identity)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Post("/", categoryHandler.Create)
			r.Get("/{id}", categoryHandler.Get)
			r.Put("/{id}", categoryHandler.Rename)
			r.Delete("/{id}", categoryHandler.Delete)
			r.Get("/{id}/cards", cardHandler.ListByCategory)
			r.Get("/{id}/cards/due", cardHandler.ListDue)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cardHandler.Create)
			r.Get("/{id}", cardHandler.Get)
			r.Put("/{id}", cardHandler.Update)
			r.Delete("/{id}", cardHandler.Delete)
			r.Post("/{id}/copy", cardHandler.Copy)
			r.Post("/{id}/reset", cardHandler.Reset)
		})

		r.Route("/study", func(r chi.Router) {
			r.Post("/", studyHandler.Start)
			r.Get("/", studyHandler.State)
			r.Post("/reveal", studyHandler.Reveal)
			r.Post("/evaluate", studyHandler.Evaluate)
			r.Post("/end", studyHandler.End)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/categories", statsHandler.Categories)
			r.Get("/user", statsHandler.User)
		})
	})

	return r
}
