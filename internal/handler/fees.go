package handler

import (
	"log/slog"
	"net/http"

	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// FeeHandler handles payout HTTP endpoints
type FeeHandler struct {
	feeService services.FeeService
	logger     *slog.Logger
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(feeService services.FeeService, logger *slog.Logger) *FeeHandler {
	return &FeeHandler{
		feeService: feeService,
		logger:     logger,
	}
}

// Withdraw pays out the page balance under the page's ownership policy
// POST /api/pages/{id}/withdrawals
func (h *FeeHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	pageID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.feeService.Withdraw(r.Context(), caller, pageID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// DistributeTreasury sends a permissionless page's balance to one
// randomly chosen participant
// POST /api/pages/{id}/distributions
func (h *FeeHandler) DistributeTreasury(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	pageID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.feeService.DistributeTreasury(r.Context(), caller, pageID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
