package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
)

// PostgresVoteRepository implements the VoteRepository interface
type PostgresVoteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(config *RepositoryConfig) repositories.VoteRepository {
	return &PostgresVoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get returns the recorded vote state, or VoteNone for addresses that
// have never voted on the page
func (r *PostgresVoteRepository) Get(ctx context.Context, pageID int64, address string) (models.VoteState, error) {
	query := fmt.Sprintf(`
		SELECT state FROM %s
		WHERE page_id = $1 AND address = $2
	`, r.tables.Votes)

	var state models.VoteState
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, pageID, address).Scan(&state)
	if err != nil {
		if IsPgNoRowsError(err) {
			return models.VoteNone, nil
		}
		return models.VoteNone, fmt.Errorf("get vote state: %w", err)
	}

	return state, nil
}

// Set upserts the vote state for the address
func (r *PostgresVoteRepository) Set(ctx context.Context, pageID int64, address string, state models.VoteState) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (page_id, address, state, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (page_id, address)
		DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
	`, r.tables.Votes)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, pageID, address, state); err != nil {
		return fmt.Errorf("set vote state: %w", err)
	}

	return nil
}
