package models

import (
	"time"

	"folio/internal/domain"
)

// OwnershipType is the closed set of mutation policies a page can carry.
// Every workflow switches over it exhaustively; there is no fourth case.
type OwnershipType string

const (
	// OwnershipSingle - exactly one owner, whose sole approval executes a request.
	OwnershipSingle OwnershipType = "single"
	// OwnershipMultiSig - N owners, threshold-of-N approvals execute a request.
	OwnershipMultiSig OwnershipType = "multisig"
	// OwnershipPermissionless - anyone may edit; updates execute immediately.
	OwnershipPermissionless OwnershipType = "permissionless"
)

// Valid reports whether t is one of the three known policies.
func (t OwnershipType) Valid() bool {
	switch t {
	case OwnershipSingle, OwnershipMultiSig, OwnershipPermissionless:
		return true
	}
	return false
}

// Page is the core document entity: content, ownership policy, accrued fee
// balance, and vote tallies. Pages are never deleted; ids are allocated
// 1, 2, 3, ... and never reused.
type Page struct {
	ID                int64         `json:"id" db:"id"`
	Name              string        `json:"name" db:"name"`
	Thumbnail         string        `json:"thumbnail" db:"thumbnail"` // opaque blob reference
	HTML              string        `json:"html" db:"current_html"`
	OwnershipType     OwnershipType `json:"ownership_type" db:"ownership_type"`
	Owners            []string      `json:"owners"` // ordered; empty for permissionless
	ApprovalThreshold int           `json:"approval_threshold" db:"approval_threshold"`
	UpdateFee         int64         `json:"update_fee" db:"update_fee"`
	Immutable         bool          `json:"immutable" db:"immutable"` // set at creation, never cleared
	Balance           int64         `json:"balance" db:"balance"`
	TotalLikes        int64         `json:"total_likes" db:"total_likes"`
	TotalDislikes     int64         `json:"total_dislikes" db:"total_dislikes"`
	NextRequestID     int64         `json:"-" db:"next_request_id"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

// PageSummary is the listing projection of a page.
type PageSummary struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	OwnershipType OwnershipType `json:"ownership_type"`
	Immutable     bool          `json:"immutable"`
	TotalLikes    int64         `json:"total_likes"`
	TotalDislikes int64         `json:"total_dislikes"`
}

// IsOwner reports whether address is in the page's owner set.
func (p *Page) IsOwner(address string) bool {
	for _, owner := range p.Owners {
		if owner == address {
			return true
		}
	}
	return false
}

// ValidateOwnerConfig checks an (ownership type, owner set, threshold)
// triple against the structural invariants of each policy:
//
//   - single: exactly one owner, threshold unused (stored as 1)
//   - multisig: at least one distinct owner, 1 <= threshold <= |owners|
//   - permissionless: owners and threshold unused
//
// Returns ErrInvalidOwnerConfig on any violation.
func ValidateOwnerConfig(t OwnershipType, owners []string, threshold int) error {
	switch t {
	case OwnershipSingle:
		if len(owners) != 1 || owners[0] == "" {
			return domain.ErrInvalidOwnerConfig
		}
	case OwnershipMultiSig:
		if len(owners) < 1 {
			return domain.ErrInvalidOwnerConfig
		}
		seen := make(map[string]struct{}, len(owners))
		for _, owner := range owners {
			if owner == "" {
				return domain.ErrInvalidOwnerConfig
			}
			if _, dup := seen[owner]; dup {
				return domain.ErrInvalidOwnerConfig
			}
			seen[owner] = struct{}{}
		}
		if threshold < 1 || threshold > len(owners) {
			return domain.ErrInvalidOwnerConfig
		}
	case OwnershipPermissionless:
		// owners and threshold are ignored entirely
	default:
		return domain.ErrInvalidOwnerConfig
	}
	return nil
}
