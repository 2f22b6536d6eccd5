package repositories

import "context"

// AccountRepository is the settlement side of fee withdrawal and treasury
// distribution: a per-address credit ledger standing in for the host
// value-transfer primitive. Fee code must reduce the page balance in
// storage before calling Credit, so a reentrant settlement backend can
// never pay the same funds out twice.
type AccountRepository interface {
	// Credit adds amount to the address's settled balance, creating the
	// account if needed.
	Credit(ctx context.Context, address string, amount int64) error

	// Balance returns the address's settled balance (zero for unknown
	// addresses).
	Balance(ctx context.Context, address string) (int64, error)
}
