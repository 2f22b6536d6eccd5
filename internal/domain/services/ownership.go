package services

import (
	"context"

	"folio/internal/domain/models"
)

// OwnershipService validates and mutates a page's ownership policy.
// Single is the only policy a page can move away from; multisig and
// permissionless are terminal.
type OwnershipService interface {
	// ChangeOwnership atomically replaces the page's policy, owner set,
	// and threshold. The caller must be the current sole owner.
	ChangeOwnership(ctx context.Context, req *ChangeOwnershipRequest) (*models.Page, error)
}

// ChangeOwnershipRequest represents an ownership change
type ChangeOwnershipRequest struct {
	Caller       string               `json:"-"` // set by handler from auth context
	PageID       int64                `json:"-"` // set by handler from the path
	NewType      models.OwnershipType `json:"new_type"`
	NewOwners    []string             `json:"new_owners,omitempty"`
	NewThreshold int                  `json:"new_threshold,omitempty"`
}
