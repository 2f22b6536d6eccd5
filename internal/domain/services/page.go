package services

import (
	"context"

	"folio/internal/domain/models"
)

// PageService handles page creation and retrieval
type PageService interface {
	// CreatePage validates the document body and owner configuration,
	// allocates the next page id, and stores the page with zero balance,
	// zero votes, and an empty request table.
	CreatePage(ctx context.Context, req *CreatePageRequest) (*models.Page, error)

	// GetPage retrieves a page with its owner set
	GetPage(ctx context.Context, pageID int64) (*models.Page, error)

	// ListPages returns summaries of all pages in creation order
	ListPages(ctx context.Context) ([]models.PageSummary, error)
}

// CreatePageRequest represents a page creation request
type CreatePageRequest struct {
	Caller            string               `json:"-"` // set by handler from auth context
	Name              string               `json:"name"`
	Thumbnail         string               `json:"thumbnail,omitempty"`
	HTML              string               `json:"html"`
	OwnershipType     models.OwnershipType `json:"ownership_type"`
	Owners            []string             `json:"owners,omitempty"` // single: defaults to caller when empty
	ApprovalThreshold int                  `json:"approval_threshold,omitempty"`
	UpdateFee         int64                `json:"update_fee"`
	Immutable         bool                 `json:"immutable,omitempty"`
}
