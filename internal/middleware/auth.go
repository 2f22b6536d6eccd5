package middleware

import (
	"net/http"
	"strings"

	"folio/internal/auth"
	"folio/internal/httputil"
)

// openRequest reports whether the request is served without a bearer
// token. Reads are public, except the account endpoint which is scoped to
// the caller; everything that mutates state authenticates. The event
// stream must stay open because browser EventSource clients cannot send
// an Authorization header.
func openRequest(r *http.Request) bool {
	if r.URL.Path == "/health" {
		return true
	}
	if r.Method != http.MethodGet {
		return false
	}
	return r.URL.Path != "/api/accounts/me"
}

// Auth middleware verifies the bearer token and puts the caller address
// into the request context. Every page lifecycle operation identifies its
// caller this way.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openRequest(r) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithCaller(r, claims.Address()))
		})
	}
}
