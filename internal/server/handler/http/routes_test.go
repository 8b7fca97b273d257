package http

import (
	"net/http"

	"go.uber.org/zap"
)

// testRouter builds the real router over the given handlers so tests
// exercise the middleware chain and path parsing too.
func testRouter(category *CategoryHandler, card *CardHandler, study *StudyHandler, stats *StatsHandler) http.Handler {
	return NewRouter(category, card, study, stats, zap.NewNop())
}
