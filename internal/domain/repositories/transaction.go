package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a function as one atomic transaction. Every page
// lifecycle entry point goes through ExecTx: any error aborts the whole
// transaction and none of its writes survive.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
