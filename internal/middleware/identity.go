// Package middleware provides HTTP middlewares for caller identity and
// request logging.
package middleware

import (
	"context"
	"net/http"
	"strconv"
)

type ctxKey string

const userKey ctxKey = "user"

// UserHeader carries the authenticated caller's numeric id. The
// gateway in front of this service sets it after authenticating; the
// engine itself never sees credentials.
const UserHeader = "X-User-ID"

// Identity extracts the caller's user id from the UserHeader and
// stores it in the request context. Requests without a parsable id are
// rejected with 401 before any handler runs.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(UserHeader), 10, 64)
		if err != nil || userID <= 0 {
			http.Error(w, "missing or invalid user id", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the user id stored by Identity.
// Returns 0 if not found.
func GetUserIDFromContext(ctx context.Context) int64 {
	val := ctx.Value(userKey)
	if id, ok := val.(int64); ok {
		return id
	}
	return 0
}
