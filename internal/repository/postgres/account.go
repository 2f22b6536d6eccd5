package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"folio/internal/domain/repositories"
)

// PostgresAccountRepository implements the AccountRepository interface
type PostgresAccountRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(config *RepositoryConfig) repositories.AccountRepository {
	return &PostgresAccountRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Credit adds amount to the address's settled balance
func (r *PostgresAccountRepository) Credit(ctx context.Context, address string, amount int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address)
		DO UPDATE SET balance = %s.balance + EXCLUDED.balance
	`, r.tables.Accounts, r.tables.Accounts)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, address, amount); err != nil {
		return fmt.Errorf("credit account: %w", err)
	}

	return nil
}

// Balance returns the address's settled balance, zero for unknown
// addresses
func (r *PostgresAccountRepository) Balance(ctx context.Context, address string) (int64, error) {
	query := fmt.Sprintf(`
		SELECT balance FROM %s
		WHERE address = $1
	`, r.tables.Accounts)

	var balance int64
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, address).Scan(&balance)
	if err != nil {
		if IsPgNoRowsError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get account balance: %w", err)
	}

	return balance, nil
}
