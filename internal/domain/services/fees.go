package services

import "context"

// FeeService implements policy-specific payout of a page's accrued
// balance. Both operations reduce the balance in storage before any
// credit is issued (checks-effects-interactions).
type FeeService interface {
	// Withdraw pays out the page balance: single pages transfer the whole
	// balance to the sole owner; multisig pages transfer balance/|owners|
	// to each owner and leave the remainder in the page balance.
	// Permissionless pages always fail with ErrWithdrawalNotAllowed.
	Withdraw(ctx context.Context, caller string, pageID int64) (*WithdrawResult, error)

	// DistributeTreasury (permissionless only) picks one identity from the
	// recorded participant pool - weighted implicitly by repeat entries -
	// and transfers the full balance to it.
	DistributeTreasury(ctx context.Context, caller string, pageID int64) (*DistributeResult, error)
}

// WithdrawResult reports what a withdrawal paid out.
type WithdrawResult struct {
	PageID    int64 `json:"page_id"`
	Paid      int64 `json:"paid"`      // total credited across owners
	Remainder int64 `json:"remainder"` // left in the page balance (multisig only)
}

// DistributeResult reports who a treasury distribution selected.
type DistributeResult struct {
	PageID    int64  `json:"page_id"`
	Recipient string `json:"recipient"`
	Paid      int64  `json:"paid"`
}
