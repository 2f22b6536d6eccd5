package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
)

// PostgresRequestRepository implements the RequestRepository interface.
// Requests live in one flat table keyed (page_id, id) rather than nested
// per-page structures; lookups stay O(1) on the composite primary key.
type PostgresRequestRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(config *RepositoryConfig) repositories.RequestRepository {
	return &PostgresRequestRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create stores a new update request
func (r *PostgresRequestRepository) Create(ctx context.Context, req *models.UpdateRequest) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (page_id, id, proposer, new_name, new_thumbnail, new_html,
			state, fee_attached, open_submission, created_at, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Requests)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		req.PageID,
		req.ID,
		req.Proposer,
		req.NewName,
		req.NewThumbnail,
		req.NewHTML,
		req.State,
		req.FeeAttached,
		req.OpenSubmission,
		req.CreatedAt,
		req.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("create update request: %w", err)
	}

	return nil
}

// GetByID retrieves a request with its recorded approvals
func (r *PostgresRequestRepository) GetByID(ctx context.Context, pageID, requestID int64) (*models.UpdateRequest, error) {
	query := fmt.Sprintf(`
		SELECT page_id, id, proposer, new_name, new_thumbnail, new_html,
			state, fee_attached, open_submission, created_at, executed_at
		FROM %s
		WHERE page_id = $1 AND id = $2
	`, r.tables.Requests)

	var req models.UpdateRequest
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, pageID, requestID).Scan(
		&req.PageID,
		&req.ID,
		&req.Proposer,
		&req.NewName,
		&req.NewThumbnail,
		&req.NewHTML,
		&req.State,
		&req.FeeAttached,
		&req.OpenSubmission,
		&req.CreatedAt,
		&req.ExecutedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("get request %d/%d: %w", pageID, requestID, err)
	}

	approvals, err := r.listApprovals(ctx, pageID, requestID)
	if err != nil {
		return nil, err
	}
	req.Approvals = approvals

	return &req, nil
}

// ListByPage returns all requests for a page in request-id order
func (r *PostgresRequestRepository) ListByPage(ctx context.Context, pageID int64) ([]models.UpdateRequest, error) {
	query := fmt.Sprintf(`
		SELECT page_id, id, proposer, new_name, new_thumbnail, new_html,
			state, fee_attached, open_submission, created_at, executed_at
		FROM %s
		WHERE page_id = $1
		ORDER BY id
	`, r.tables.Requests)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []models.UpdateRequest
	for rows.Next() {
		var req models.UpdateRequest
		err := rows.Scan(
			&req.PageID,
			&req.ID,
			&req.Proposer,
			&req.NewName,
			&req.NewThumbnail,
			&req.NewHTML,
			&req.State,
			&req.FeeAttached,
			&req.OpenSubmission,
			&req.CreatedAt,
			&req.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	return requests, nil
}

// AddApproval records an approval; the composite primary key turns a
// duplicate approval into a unique violation.
func (r *PostgresRequestRepository) AddApproval(ctx context.Context, pageID, requestID int64, address string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (page_id, request_id, address, created_at)
		VALUES ($1, $2, $3, NOW())
	`, r.tables.Approvals)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, pageID, requestID, address); err != nil {
		if IsPgDuplicateError(err) {
			return domain.ErrAlreadyApproved
		}
		return fmt.Errorf("add approval: %w", err)
	}

	return nil
}

// CountApprovals returns the number of distinct approvers recorded
func (r *PostgresRequestRepository) CountApprovals(ctx context.Context, pageID, requestID int64) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE page_id = $1 AND request_id = $2
	`, r.tables.Approvals)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, pageID, requestID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count approvals: %w", err)
	}

	return count, nil
}

// MarkExecuted transitions the request to the executed state
func (r *PostgresRequestRepository) MarkExecuted(ctx context.Context, pageID, requestID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET state = $3, executed_at = NOW()
		WHERE page_id = $1 AND id = $2
	`, r.tables.Requests)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, pageID, requestID, models.RequestExecuted)
	if err != nil {
		return fmt.Errorf("mark request executed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRequestNotFound
	}

	return nil
}

// ListProposers returns the proposers of permissionless-era submissions
// in submission order. Requests queued under an earlier single-owner
// policy never enter the pool.
func (r *PostgresRequestRepository) ListProposers(ctx context.Context, pageID int64) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT proposer FROM %s
		WHERE page_id = $1 AND open_submission
		ORDER BY id
	`, r.tables.Requests)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("list proposers: %w", err)
	}
	defer rows.Close()

	var proposers []string
	for rows.Next() {
		var proposer string
		if err := rows.Scan(&proposer); err != nil {
			return nil, fmt.Errorf("scan proposer: %w", err)
		}
		proposers = append(proposers, proposer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list proposers: %w", err)
	}

	return proposers, nil
}

func (r *PostgresRequestRepository) listApprovals(ctx context.Context, pageID, requestID int64) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT address FROM %s
		WHERE page_id = $1 AND request_id = $2
		ORDER BY created_at
	`, r.tables.Approvals)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, pageID, requestID)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	var approvals []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		approvals = append(approvals, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}

	return approvals, nil
}
