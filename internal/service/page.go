package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
	"folio/internal/events"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// pageService implements the PageService interface
type pageService struct {
	pageRepo  repositories.PageRepository
	txManager repositories.TransactionManager
	bus       events.Publisher
	logger    *slog.Logger
}

// NewPageService creates a new page service
func NewPageService(
	pageRepo repositories.PageRepository,
	txManager repositories.TransactionManager,
	bus events.Publisher,
	logger *slog.Logger,
) services.PageService {
	return &pageService{
		pageRepo:  pageRepo,
		txManager: txManager,
		bus:       bus,
		logger:    logger,
	}
}

// CreatePage validates and stores a new page. On any violation nothing is
// written; on success the allocated id is strictly greater than every id
// issued before it.
func (s *pageService) CreatePage(ctx context.Context, req *services.CreatePageRequest) (*models.Page, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxPageNameLength)),
		validation.Field(&req.Thumbnail, validation.Length(0, config.MaxThumbnailLength)),
		validation.Field(&req.HTML, validation.Required),
		validation.Field(&req.UpdateFee, validation.Min(0)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if !isWellFormedDocument(req.HTML) {
		return nil, domain.ErrInvalidDocument
	}

	owners := req.Owners
	threshold := req.ApprovalThreshold
	switch req.OwnershipType {
	case models.OwnershipSingle:
		if len(owners) == 0 {
			owners = []string{req.Caller}
		}
		threshold = 1
	case models.OwnershipPermissionless:
		owners = nil
		threshold = 0
	}
	if err := models.ValidateOwnerConfig(req.OwnershipType, owners, threshold); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	page := &models.Page{
		Name:              req.Name,
		Thumbnail:         req.Thumbnail,
		HTML:              req.HTML,
		OwnershipType:     req.OwnershipType,
		Owners:            owners,
		ApprovalThreshold: threshold,
		UpdateFee:         req.UpdateFee,
		Immutable:         req.Immutable,
		NextRequestID:     1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		return s.pageRepo.Create(ctx, page)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page created",
		"page_id", page.ID,
		"ownership_type", page.OwnershipType,
		"immutable", page.Immutable,
		"update_fee", page.UpdateFee,
	)
	s.bus.Publish(events.Event{
		Type:   events.TypePageCreated,
		PageID: page.ID,
		At:     now,
	})

	return page, nil
}

// GetPage retrieves a page by id
func (s *pageService) GetPage(ctx context.Context, pageID int64) (*models.Page, error) {
	return s.pageRepo.GetByID(ctx, pageID)
}

// ListPages returns all page summaries in creation order
func (s *pageService) ListPages(ctx context.Context) ([]models.PageSummary, error) {
	return s.pageRepo.List(ctx)
}

// isWellFormedDocument is a format sanity check, not a parse: the body
// must open with a doctype declaration and close with the html root tag.
func isWellFormedDocument(html string) bool {
	trimmed := strings.TrimSpace(html)
	return strings.HasPrefix(strings.ToLower(trimmed), "<!doctype") &&
		strings.HasSuffix(strings.ToLower(trimmed), "</html>")
}
