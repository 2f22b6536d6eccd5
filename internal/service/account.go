package service

import (
	"context"
	"log/slog"

	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
)

// accountService implements the AccountService interface
type accountService struct {
	accountRepo repositories.AccountRepository
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepository,
	logger *slog.Logger,
) services.AccountService {
	return &accountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (s *accountService) GetBalance(ctx context.Context, address string) (*services.AccountBalance, error) {
	balance, err := s.accountRepo.Balance(ctx, address)
	if err != nil {
		return nil, err
	}
	return &services.AccountBalance{
		Address: address,
		Balance: balance,
	}, nil
}
