package repositories

import (
	"context"

	"folio/internal/domain/models"
)

// RequestRepository is the flat table of update requests keyed by
// (page id, request id). Requests are append-only: they transition
// pending -> executed at most once and are never deleted.
type RequestRepository interface {
	// Create stores a new update request.
	Create(ctx context.Context, req *models.UpdateRequest) error

	// GetByID retrieves a request with its recorded approvals.
	// Returns domain.ErrRequestNotFound if no such request exists.
	GetByID(ctx context.Context, pageID, requestID int64) (*models.UpdateRequest, error)

	// ListByPage returns all requests for a page in request-id order.
	ListByPage(ctx context.Context, pageID int64) ([]models.UpdateRequest, error)

	// AddApproval records an approval by address. Returns
	// domain.ErrAlreadyApproved if the address has already approved.
	AddApproval(ctx context.Context, pageID, requestID int64, address string) error

	// CountApprovals returns the number of distinct approvers recorded.
	CountApprovals(ctx context.Context, pageID, requestID int64) (int, error)

	// MarkExecuted transitions the request to the executed state.
	MarkExecuted(ctx context.Context, pageID, requestID int64) error

	// ListProposers returns the proposer of every open submission on the
	// page in submission order. This multiset is the treasury
	// distribution pool: repeat submitters appear once per submission and
	// are weighted accordingly. Requests queued under an earlier
	// single-owner policy are excluded.
	ListProposers(ctx context.Context, pageID int64) ([]string, error)
}
