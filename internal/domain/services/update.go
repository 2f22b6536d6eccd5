package services

import (
	"context"

	"folio/internal/domain/models"
)

// UpdateService handles the modification pipeline: request submission,
// approval collection, and execution. Behavior forks on the page's
// ownership policy - permissionless pages execute immediately, single and
// multisig pages queue a pending request.
type UpdateService interface {
	// RequestUpdate submits a content change carrying a payment. The
	// payment is credited to the page balance at request time for every
	// policy, whether or not the request ever executes.
	RequestUpdate(ctx context.Context, req *RequestUpdateInput) (*RequestUpdateResult, error)

	// ApproveRequest records an owner's approval of a pending request and
	// executes it once the policy's approval condition is met (single: the
	// sole owner's approval; multisig: threshold distinct approvals).
	ApproveRequest(ctx context.Context, caller string, pageID, requestID int64) (*models.UpdateRequest, error)

	// GetRequest retrieves a single request with its approvals
	GetRequest(ctx context.Context, pageID, requestID int64) (*models.UpdateRequest, error)

	// ListRequests returns the page's full request history (never pruned)
	ListRequests(ctx context.Context, pageID int64) ([]models.UpdateRequest, error)
}

// RequestUpdateInput represents an update submission. Empty candidate
// fields mean "no change"; at least one must be non-empty.
type RequestUpdateInput struct {
	Caller       string `json:"-"` // set by handler from auth context
	PageID       int64  `json:"-"` // set by handler from the path
	NewName      string `json:"new_name,omitempty"`
	NewThumbnail string `json:"new_thumbnail,omitempty"`
	NewHTML      string `json:"new_html,omitempty"`
	Payment      int64  `json:"payment"`
}

// RequestUpdateResult carries the allocated request id. Executed is the
// synthetic "immediate" marker: true when the page is permissionless and
// the change was applied on the spot.
type RequestUpdateResult struct {
	RequestID int64 `json:"request_id"`
	Executed  bool  `json:"executed"`
}
