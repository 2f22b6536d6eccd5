package service

import (
	"context"
	"log/slog"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
	"folio/internal/random"
)

// feeService implements the FeeService interface
type feeService struct {
	pageRepo    repositories.PageRepository
	requestRepo repositories.RequestRepository
	accountRepo repositories.AccountRepository
	txManager   repositories.TransactionManager
	entropy     random.Source
	logger      *slog.Logger
}

// NewFeeService creates a new fee service
func NewFeeService(
	pageRepo repositories.PageRepository,
	requestRepo repositories.RequestRepository,
	accountRepo repositories.AccountRepository,
	txManager repositories.TransactionManager,
	entropy random.Source,
	logger *slog.Logger,
) services.FeeService {
	return &feeService{
		pageRepo:    pageRepo,
		requestRepo: requestRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
		entropy:     entropy,
		logger:      logger,
	}
}

// Withdraw pays out the accrued balance per the page's policy. The page
// balance is reduced in storage before any account is credited, so a
// reentrant settlement backend cannot drain the same funds twice.
func (s *feeService) Withdraw(ctx context.Context, caller string, pageID int64) (*services.WithdrawResult, error) {
	var result services.WithdrawResult

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		page, err := s.pageRepo.GetForUpdate(ctx, pageID)
		if err != nil {
			return err
		}

		switch page.OwnershipType {
		case models.OwnershipPermissionless:
			return domain.ErrWithdrawalNotAllowed

		case models.OwnershipSingle:
			if caller != page.Owners[0] {
				return domain.ErrNotOwner
			}
			amount := page.Balance
			if err := s.pageRepo.SetBalance(ctx, pageID, 0); err != nil {
				return err
			}
			if err := s.accountRepo.Credit(ctx, page.Owners[0], amount); err != nil {
				return err
			}
			result = services.WithdrawResult{PageID: pageID, Paid: amount}

		case models.OwnershipMultiSig:
			if !page.IsOwner(caller) {
				return domain.ErrNotOwner
			}
			share := page.Balance / int64(len(page.Owners))
			remainder := page.Balance % int64(len(page.Owners))
			if err := s.pageRepo.SetBalance(ctx, pageID, remainder); err != nil {
				return err
			}
			for _, owner := range page.Owners {
				if err := s.accountRepo.Credit(ctx, owner, share); err != nil {
					return err
				}
			}
			result = services.WithdrawResult{
				PageID:    pageID,
				Paid:      share * int64(len(page.Owners)),
				Remainder: remainder,
			}

		default:
			return domain.ErrWithdrawalNotAllowed
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fees withdrawn",
		"page_id", pageID,
		"caller", caller,
		"paid", result.Paid,
		"remainder", result.Remainder,
	)
	return &result, nil
}

// DistributeTreasury transfers the full balance of a permissionless page
// to one past participant, chosen by the injected entropy source from the
// multiset of request proposers. The selection is documented-weak; see
// package random.
func (s *feeService) DistributeTreasury(ctx context.Context, caller string, pageID int64) (*services.DistributeResult, error) {
	var result services.DistributeResult

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		page, err := s.pageRepo.GetForUpdate(ctx, pageID)
		if err != nil {
			return err
		}
		if page.OwnershipType != models.OwnershipPermissionless {
			return domain.ErrNotPermissionless
		}

		pool, err := s.requestRepo.ListProposers(ctx, pageID)
		if err != nil {
			return err
		}
		if len(pool) == 0 {
			return domain.ErrNoParticipants
		}

		recipient := pool[s.entropy.Intn(len(pool))]
		amount := page.Balance

		// Effects before transfer
		if err := s.pageRepo.SetBalance(ctx, pageID, 0); err != nil {
			return err
		}
		if err := s.accountRepo.Credit(ctx, recipient, amount); err != nil {
			return err
		}

		result = services.DistributeResult{PageID: pageID, Recipient: recipient, Paid: amount}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("treasury distributed",
		"page_id", pageID,
		"caller", caller,
		"recipient", result.Recipient,
		"paid", result.Paid,
	)
	return &result, nil
}
