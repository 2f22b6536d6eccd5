package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
	"folio/internal/events"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// updateService implements the UpdateService interface
type updateService struct {
	pageRepo    repositories.PageRepository
	requestRepo repositories.RequestRepository
	txManager   repositories.TransactionManager
	bus         events.Publisher
	logger      *slog.Logger
}

// NewUpdateService creates a new update service
func NewUpdateService(
	pageRepo repositories.PageRepository,
	requestRepo repositories.RequestRepository,
	txManager repositories.TransactionManager,
	bus events.Publisher,
	logger *slog.Logger,
) services.UpdateService {
	return &updateService{
		pageRepo:    pageRepo,
		requestRepo: requestRepo,
		txManager:   txManager,
		bus:         bus,
		logger:      logger,
	}
}

// RequestUpdate submits a content change. The attached payment accrues to
// the page balance at request time regardless of policy; execution is
// immediate on permissionless pages and deferred behind approvals
// otherwise.
func (s *updateService) RequestUpdate(ctx context.Context, req *services.RequestUpdateInput) (*services.RequestUpdateResult, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Payment, validation.Min(0)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var (
		result  services.RequestUpdateResult
		emitted *events.Event
	)

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		page, err := s.pageRepo.GetForUpdate(ctx, req.PageID)
		if err != nil {
			return err
		}
		if page.Immutable {
			return domain.ErrPageImmutable
		}
		if req.NewName == "" && req.NewThumbnail == "" && req.NewHTML == "" {
			return domain.ErrNoFieldsChanged
		}
		if req.Payment < page.UpdateFee {
			return domain.ErrInsufficientFee
		}

		requestID, err := s.pageRepo.NextRequestID(ctx, page.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		record := &models.UpdateRequest{
			PageID:       page.ID,
			ID:           requestID,
			Proposer:     req.Caller,
			NewName:      req.NewName,
			NewThumbnail: req.NewThumbnail,
			NewHTML:      req.NewHTML,
			State:        models.RequestPending,
			FeeAttached:  req.Payment,
			CreatedAt:    now,
		}

		switch page.OwnershipType {
		case models.OwnershipPermissionless:
			// Immediate execution: the stored request is born executed and
			// its proposer joins the treasury distribution pool.
			record.State = models.RequestExecuted
			record.ExecutedAt = &now
			record.OpenSubmission = true
			if err := s.requestRepo.Create(ctx, record); err != nil {
				return err
			}
			if err := s.applyContent(ctx, page, record); err != nil {
				return err
			}
			result = services.RequestUpdateResult{RequestID: requestID, Executed: true}
			emitted = &events.Event{
				Type:      events.TypeUpdateExecuted,
				PageID:    page.ID,
				RequestID: requestID,
				NewHTML:   req.NewHTML,
				At:        now,
			}

		case models.OwnershipSingle, models.OwnershipMultiSig:
			if err := s.requestRepo.Create(ctx, record); err != nil {
				return err
			}
			result = services.RequestUpdateResult{RequestID: requestID, Executed: false}

		default:
			return fmt.Errorf("page %d has unknown ownership type %q", page.ID, page.OwnershipType)
		}

		return s.pageRepo.AddBalance(ctx, page.ID, req.Payment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("update requested",
		"page_id", req.PageID,
		"request_id", result.RequestID,
		"proposer", req.Caller,
		"executed", result.Executed,
		"payment", req.Payment,
	)
	if emitted != nil {
		s.bus.Publish(*emitted)
	}

	return &result, nil
}

// ApproveRequest records an approval and executes the request once the
// policy's condition holds. Execution happens at most once: re-approval of
// an executed request fails with ErrAlreadyExecuted.
func (s *updateService) ApproveRequest(ctx context.Context, caller string, pageID, requestID int64) (*models.UpdateRequest, error) {
	var (
		approved *models.UpdateRequest
		emitted  *events.Event
	)

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		page, err := s.pageRepo.GetForUpdate(ctx, pageID)
		if err != nil {
			return err
		}
		if page.Immutable {
			return domain.ErrPageImmutable
		}
		if !page.IsOwner(caller) {
			return domain.ErrNotOwner
		}

		req, err := s.requestRepo.GetByID(ctx, pageID, requestID)
		if err != nil {
			return err
		}
		if req.State == models.RequestExecuted {
			return domain.ErrAlreadyExecuted
		}

		execute := false
		switch page.OwnershipType {
		case models.OwnershipSingle:
			// The sole owner's approval always executes immediately.
			if err := s.requestRepo.AddApproval(ctx, pageID, requestID, caller); err != nil {
				return err
			}
			execute = true

		case models.OwnershipMultiSig:
			if err := s.requestRepo.AddApproval(ctx, pageID, requestID, caller); err != nil {
				return err
			}
			count, err := s.requestRepo.CountApprovals(ctx, pageID, requestID)
			if err != nil {
				return err
			}
			execute = count >= page.ApprovalThreshold

		case models.OwnershipPermissionless:
			// Permissionless pages never hold pending requests.
			return domain.ErrRequestNotFound

		default:
			return fmt.Errorf("page %d has unknown ownership type %q", page.ID, page.OwnershipType)
		}

		req.Approvals = append(req.Approvals, caller)
		if execute {
			if err := s.applyContent(ctx, page, req); err != nil {
				return err
			}
			if err := s.requestRepo.MarkExecuted(ctx, pageID, requestID); err != nil {
				return err
			}
			now := time.Now().UTC()
			req.State = models.RequestExecuted
			req.ExecutedAt = &now
			emitted = &events.Event{
				Type:      events.TypeUpdateExecuted,
				PageID:    pageID,
				RequestID: requestID,
				NewHTML:   req.NewHTML,
				At:        now,
			}
		}
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("request approved",
		"page_id", pageID,
		"request_id", requestID,
		"approver", caller,
		"executed", approved.State == models.RequestExecuted,
	)
	if emitted != nil {
		s.bus.Publish(*emitted)
	}

	return approved, nil
}

// GetRequest retrieves a single request with its approvals
func (s *updateService) GetRequest(ctx context.Context, pageID, requestID int64) (*models.UpdateRequest, error) {
	return s.requestRepo.GetByID(ctx, pageID, requestID)
}

// ListRequests returns the page's full request history
func (s *updateService) ListRequests(ctx context.Context, pageID int64) ([]models.UpdateRequest, error) {
	return s.requestRepo.ListByPage(ctx, pageID)
}

// applyContent writes the request's non-empty candidate fields over the
// page's current content, leaving "no change" fields as they are.
func (s *updateService) applyContent(ctx context.Context, page *models.Page, req *models.UpdateRequest) error {
	name, thumbnail, html := page.Name, page.Thumbnail, page.HTML
	if req.NewName != "" {
		name = req.NewName
	}
	if req.NewThumbnail != "" {
		thumbnail = req.NewThumbnail
	}
	if req.NewHTML != "" {
		html = req.NewHTML
	}
	return s.pageRepo.UpdateContent(ctx, page.ID, name, thumbnail, html)
}
