package services

import "context"

// AccountService exposes the per-address credit ledger that payouts and
// distributions deposit into.
type AccountService interface {
	// GetBalance returns the address's accumulated credits (zero for an
	// address that has never been paid).
	GetBalance(ctx context.Context, address string) (*AccountBalance, error)
}

// AccountBalance is an address's withdrawable credit total.
type AccountBalance struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}
