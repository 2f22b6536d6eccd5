package repositories

import (
	"context"

	"folio/internal/domain/models"
)

// PageRepository is the durable table of Page records plus the monotonic
// id allocator. Page ids are issued 1, 2, 3, ... in creation order and
// never reused; per-page request ids are likewise monotonic.
type PageRepository interface {
	// Create allocates the next page id, stores the page with its owner
	// set, and writes the allocated id back into page.ID.
	Create(ctx context.Context, page *models.Page) error

	// GetByID retrieves a page with its ordered owner set.
	// Returns domain.ErrPageNotFound if no such page exists.
	GetByID(ctx context.Context, id int64) (*models.Page, error)

	// GetForUpdate retrieves a page with its owner set, locking the page
	// row for the remainder of the enclosing transaction.
	GetForUpdate(ctx context.Context, id int64) (*models.Page, error)

	// List returns summaries of all pages in id order.
	List(ctx context.Context) ([]models.PageSummary, error)

	// NextRequestID allocates the next request id for the page.
	NextRequestID(ctx context.Context, pageID int64) (int64, error)

	// UpdateContent replaces the page's content fields with the given
	// final values (merging "no change" markers is the caller's job).
	UpdateContent(ctx context.Context, pageID int64, name, thumbnail, html string) error

	// SetOwnership atomically replaces the page's policy, owner set, and
	// threshold. No other field changes.
	SetOwnership(ctx context.Context, pageID int64, t models.OwnershipType, owners []string, threshold int) error

	// AddBalance credits amount to the page's accrued fee balance.
	AddBalance(ctx context.Context, pageID int64, amount int64) error

	// SetBalance overwrites the page's balance. Used by withdrawal and
	// distribution, which must reduce storage before any transfer.
	SetBalance(ctx context.Context, pageID int64, amount int64) error

	// AdjustVoteTotals moves the tallies by the given deltas and returns
	// the updated totals.
	AdjustVoteTotals(ctx context.Context, pageID int64, likes, dislikes int64) (*models.VoteTally, error)
}
