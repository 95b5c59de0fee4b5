package httputil

import (
	"context"
	"net/http"
)

// Unexported key type keeps context values collision-free.
type contextKey int

const userIDKey contextKey = iota

// WithUserID returns a copy of r whose context carries the authenticated
// user's ID. Set by the auth middleware.
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}

// GetUserID returns the authenticated user's ID, or "" when the request
// never passed through the auth middleware.
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
