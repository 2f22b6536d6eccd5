package handler

import (
	"log/slog"
	"net/http"

	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// OwnershipHandler handles ownership policy HTTP endpoints
type OwnershipHandler struct {
	ownershipService services.OwnershipService
	logger           *slog.Logger
}

// NewOwnershipHandler creates a new ownership handler
func NewOwnershipHandler(ownershipService services.OwnershipService, logger *slog.Logger) *OwnershipHandler {
	return &OwnershipHandler{
		ownershipService: ownershipService,
		logger:           logger,
	}
}

// ChangeOwnership replaces the page's ownership policy
// PUT /api/pages/{id}/ownership
func (h *OwnershipHandler) ChangeOwnership(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	pageID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.ChangeOwnershipRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Caller = caller
	req.PageID = pageID

	page, err := h.ownershipService.ChangeOwnership(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}
