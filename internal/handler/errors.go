package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/domain"
	"folio/internal/httputil"
)

// handleError maps domain errors to RFC 7807 responses. Specific lifecycle
// errors carry their own status via HTTPError; anything else falls back to
// its category, and unknown errors become opaque 500s.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireCaller extracts the authenticated caller or writes a 401
func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := httputil.GetCaller(r)
	if caller == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "caller identity missing")
		return "", false
	}
	return caller, true
}
