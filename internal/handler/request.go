package handler

import (
	"log/slog"
	"net/http"

	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// RequestHandler handles update request HTTP endpoints
type RequestHandler struct {
	updateService services.UpdateService
	logger        *slog.Logger
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(updateService services.UpdateService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		updateService: updateService,
		logger:        logger,
	}
}

// RequestUpdate submits a content change
// POST /api/pages/{id}/requests
// Returns 200 with executed=true when the page is permissionless and the
// change was applied immediately, 201 with the queued request id otherwise.
func (h *RequestHandler) RequestUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	pageID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req services.RequestUpdateInput
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Caller = caller
	req.PageID = pageID

	result, err := h.updateService.RequestUpdate(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	status := http.StatusCreated
	if result.Executed {
		status = http.StatusOK
	}
	httputil.RespondJSON(w, status, result)
}

// ApproveRequest records the caller's approval of a pending request
// POST /api/pages/{id}/requests/{rid}/approvals
func (h *RequestHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	pageID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	requestID, err := httputil.PathID(r, "rid")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.updateService.ApproveRequest(r.Context(), caller, pageID, requestID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, req)
}

// GetRequest retrieves a single request with its approvals
// GET /api/pages/{id}/requests/{rid}
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	pageID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	requestID, err := httputil.PathID(r, "rid")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.updateService.GetRequest(r.Context(), pageID, requestID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, req)
}

// ListRequests returns the page's full request history
// GET /api/pages/{id}/requests
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	pageID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := h.updateService.ListRequests(r.Context(), pageID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requests)
}
