package repositories

import (
	"context"

	"folio/internal/domain/models"
)

// VoteRepository stores the per-address vote state of each page.
type VoteRepository interface {
	// Get returns the recorded state for address on the page, or
	// models.VoteNone if the address has never voted.
	Get(ctx context.Context, pageID int64, address string) (models.VoteState, error)

	// Set records the state for address on the page, replacing any
	// previous state.
	Set(ctx context.Context, pageID int64, address string, state models.VoteState) error
}
