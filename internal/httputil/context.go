package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey       contextKey = "userID"
	sourceClientKey contextKey = "sourceClient"
)

// WithUserID adds userID to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithSourceClient records which calling surface (editor, cli, assistant)
// made the request.
func WithSourceClient(r *http.Request, client string) *http.Request {
	ctx := context.WithValue(r.Context(), sourceClientKey, client)
	return r.WithContext(ctx)
}

// GetSourceClient retrieves the calling surface from context, returns empty
// string if not found.
func GetSourceClient(r *http.Request) string {
	client, _ := r.Context().Value(sourceClientKey).(string)
	return client
}
