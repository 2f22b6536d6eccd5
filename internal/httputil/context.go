package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const callerKey contextKey = "caller"

// WithCaller adds the authenticated caller address to the request context
func WithCaller(r *http.Request, address string) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, address)
	return r.WithContext(ctx)
}

// GetCaller retrieves the caller address from context, returns empty
// string if not found
func GetCaller(r *http.Request) string {
	address, _ := r.Context().Value(callerKey).(string)
	return address
}
