package models

import "time"

// RequestState tracks the lifecycle of an update request. There is no
// rejection state: a pending request that never gathers enough approvals
// simply never executes.
type RequestState string

const (
	RequestPending  RequestState = "pending"
	RequestExecuted RequestState = "executed"
)

// UpdateRequest is a proposed content change. Candidate fields use the
// empty string as the "no change" marker; at least one must be non-empty.
// Requests are never deleted - on single/multisig pages they are the audit
// history, and on permissionless pages their proposers double as the
// treasury distribution pool.
type UpdateRequest struct {
	PageID       int64        `json:"page_id" db:"page_id"`
	ID           int64        `json:"id" db:"id"` // monotonic within its page
	Proposer     string       `json:"proposer" db:"proposer"`
	NewName      string       `json:"new_name,omitempty" db:"new_name"`
	NewThumbnail string       `json:"new_thumbnail,omitempty" db:"new_thumbnail"`
	NewHTML      string       `json:"new_html,omitempty" db:"new_html"`
	State        RequestState `json:"state" db:"state"`
	FeeAttached  int64        `json:"fee_attached" db:"fee_attached"`
	// OpenSubmission marks requests submitted while the page was
	// permissionless; only their proposers enter the treasury pool. A page
	// that turns permissionless later does not retroactively enroll its
	// earlier proposers.
	OpenSubmission bool `json:"open_submission" db:"open_submission"`
	Approvals    []string     `json:"approvals,omitempty"` // identities that approved; multisig only
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	ExecutedAt   *time.Time   `json:"executed_at,omitempty" db:"executed_at"`
}

// HasChanges reports whether at least one candidate field is a replacement.
func (r *UpdateRequest) HasChanges() bool {
	return r.NewName != "" || r.NewThumbnail != "" || r.NewHTML != ""
}
