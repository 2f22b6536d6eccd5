package services

import (
	"context"

	"folio/internal/domain/models"
)

// VoteService records per-address like/dislike state and keeps the page
// tallies consistent with it.
type VoteService interface {
	// Vote records the caller's vote. Re-voting the same direction is a
	// no-op; voting the opposite direction moves exactly one unit between
	// the tallies. Returns the updated tallies.
	Vote(ctx context.Context, caller string, pageID int64, like bool) (*models.VoteTally, error)
}
