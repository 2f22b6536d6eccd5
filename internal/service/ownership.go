package service

import (
	"context"
	"log/slog"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
)

// ownershipService implements the OwnershipService interface
type ownershipService struct {
	pageRepo  repositories.PageRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewOwnershipService creates a new ownership service
func NewOwnershipService(
	pageRepo repositories.PageRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.OwnershipService {
	return &ownershipService{
		pageRepo:  pageRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ChangeOwnership replaces the page's policy, owner set, and threshold in
// one atomic step. Only the sole owner of a single-owner page may do this;
// multisig and permissionless are terminal policies.
func (s *ownershipService) ChangeOwnership(ctx context.Context, req *services.ChangeOwnershipRequest) (*models.Page, error) {
	var changed *models.Page

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		page, err := s.pageRepo.GetForUpdate(ctx, req.PageID)
		if err != nil {
			return err
		}
		if page.Immutable {
			return domain.ErrPageImmutable
		}
		if page.OwnershipType != models.OwnershipSingle {
			return domain.ErrOwnershipLocked
		}
		if req.Caller != page.Owners[0] {
			return domain.ErrNotSingleOwner
		}

		owners := req.NewOwners
		threshold := req.NewThreshold
		switch req.NewType {
		case models.OwnershipSingle:
			threshold = 1
		case models.OwnershipPermissionless:
			owners = nil
			threshold = 0
		}
		if err := models.ValidateOwnerConfig(req.NewType, owners, threshold); err != nil {
			return err
		}

		if err := s.pageRepo.SetOwnership(ctx, page.ID, req.NewType, owners, threshold); err != nil {
			return err
		}

		page.OwnershipType = req.NewType
		page.Owners = owners
		page.ApprovalThreshold = threshold
		changed = page
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ownership changed",
		"page_id", req.PageID,
		"caller", req.Caller,
		"new_type", req.NewType,
		"owner_count", len(changed.Owners),
		"threshold", changed.ApprovalThreshold,
	)
	return changed, nil
}
