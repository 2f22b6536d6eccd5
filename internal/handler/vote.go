package handler

import (
	"log/slog"
	"net/http"

	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// VoteHandler handles like/dislike HTTP endpoints
type VoteHandler struct {
	voteService services.VoteService
	logger      *slog.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteService services.VoteService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
		logger:      logger,
	}
}

type voteRequest struct {
	Like bool `json:"like"`
}

// Vote records the caller's like or dislike and returns the new tallies
// POST /api/pages/{id}/votes
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	pageID, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req voteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tally, err := h.voteService.Vote(r.Context(), caller, pageID, req.Like)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tally)
}
