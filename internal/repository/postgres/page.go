package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
)

// PostgresPageRepository implements the PageRepository interface
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPageRepository creates a new page repository
func NewPageRepository(config *RepositoryConfig) repositories.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create allocates the next page id from the counter row and stores the
// page with its owner set. The counter row is locked by the UPDATE for the
// rest of the transaction, which serializes creations and keeps ids
// gap-free even when a creation aborts.
func (r *PostgresPageRepository) Create(ctx context.Context, page *models.Page) error {
	executor := GetExecutor(ctx, r.pool)

	allocate := fmt.Sprintf(`
		UPDATE %s SET value = value + 1
		WHERE name = 'page_id'
		RETURNING value
	`, r.tables.Counters)

	if err := executor.QueryRow(ctx, allocate).Scan(&page.ID); err != nil {
		return fmt.Errorf("allocate page id: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, name, thumbnail, current_html, ownership_type,
			approval_threshold, update_fee, immutable, balance,
			total_likes, total_dislikes, next_request_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, 0, $9, $10, $11)
	`, r.tables.Pages)

	_, err := executor.Exec(ctx, insert,
		page.ID,
		page.Name,
		page.Thumbnail,
		page.HTML,
		page.OwnershipType,
		page.ApprovalThreshold,
		page.UpdateFee,
		page.Immutable,
		page.NextRequestID,
		page.CreatedAt,
		page.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}

	return r.insertOwners(ctx, page.ID, page.Owners)
}

// GetByID retrieves a page with its ordered owner set
func (r *PostgresPageRepository) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a page, locking its row for the enclosing
// transaction
func (r *PostgresPageRepository) GetForUpdate(ctx context.Context, id int64) (*models.Page, error) {
	return r.get(ctx, id, true)
}

func (r *PostgresPageRepository) get(ctx context.Context, id int64, forUpdate bool) (*models.Page, error) {
	lock := ""
	if forUpdate {
		lock = "FOR UPDATE"
	}
	query := fmt.Sprintf(`
		SELECT id, name, thumbnail, current_html, ownership_type,
			approval_threshold, update_fee, immutable, balance,
			total_likes, total_dislikes, next_request_id, created_at, updated_at
		FROM %s
		WHERE id = $1
		%s
	`, r.tables.Pages, lock)

	var page models.Page
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&page.ID,
		&page.Name,
		&page.Thumbnail,
		&page.HTML,
		&page.OwnershipType,
		&page.ApprovalThreshold,
		&page.UpdateFee,
		&page.Immutable,
		&page.Balance,
		&page.TotalLikes,
		&page.TotalDislikes,
		&page.NextRequestID,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.ErrPageNotFound
		}
		return nil, fmt.Errorf("get page %d: %w", id, err)
	}

	owners, err := r.listOwners(ctx, id)
	if err != nil {
		return nil, err
	}
	page.Owners = owners

	return &page, nil
}

// List returns summaries of all pages in id order
func (r *PostgresPageRepository) List(ctx context.Context) ([]models.PageSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, name, ownership_type, immutable, total_likes, total_dislikes
		FROM %s
		ORDER BY id
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var summaries []models.PageSummary
	for rows.Next() {
		var s models.PageSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.OwnershipType, &s.Immutable, &s.TotalLikes, &s.TotalDislikes); err != nil {
			return nil, fmt.Errorf("scan page summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	return summaries, nil
}

// NextRequestID bumps the page's request counter and returns the
// allocated id
func (r *PostgresPageRepository) NextRequestID(ctx context.Context, pageID int64) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET next_request_id = next_request_id + 1
		WHERE id = $1
		RETURNING next_request_id - 1
	`, r.tables.Pages)

	var id int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, pageID).Scan(&id); err != nil {
		if IsPgNoRowsError(err) {
			return 0, domain.ErrPageNotFound
		}
		return 0, fmt.Errorf("allocate request id: %w", err)
	}

	return id, nil
}

// UpdateContent replaces the page's content fields
func (r *PostgresPageRepository) UpdateContent(ctx context.Context, pageID int64, name, thumbnail, html string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, thumbnail = $3, current_html = $4, updated_at = NOW()
		WHERE id = $1
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, pageID, name, thumbnail, html)
	if err != nil {
		return fmt.Errorf("update page content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPageNotFound
	}

	return nil
}

// SetOwnership replaces the page's policy, owner set, and threshold
func (r *PostgresPageRepository) SetOwnership(ctx context.Context, pageID int64, t models.OwnershipType, owners []string, threshold int) error {
	executor := GetExecutor(ctx, r.pool)

	update := fmt.Sprintf(`
		UPDATE %s
		SET ownership_type = $2, approval_threshold = $3, updated_at = NOW()
		WHERE id = $1
	`, r.tables.Pages)

	tag, err := executor.Exec(ctx, update, pageID, t, threshold)
	if err != nil {
		return fmt.Errorf("update ownership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPageNotFound
	}

	clear := fmt.Sprintf(`DELETE FROM %s WHERE page_id = $1`, r.tables.Owners)
	if _, err := executor.Exec(ctx, clear, pageID); err != nil {
		return fmt.Errorf("clear owners: %w", err)
	}

	return r.insertOwners(ctx, pageID, owners)
}

// AddBalance credits amount to the page's fee balance
func (r *PostgresPageRepository) AddBalance(ctx context.Context, pageID int64, amount int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET balance = balance + $2
		WHERE id = $1
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, pageID, amount)
	if err != nil {
		return fmt.Errorf("add page balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPageNotFound
	}

	return nil
}

// SetBalance overwrites the page's fee balance. The balance column has a
// non-negative check constraint; the invariant holds in storage, not just
// in service code.
func (r *PostgresPageRepository) SetBalance(ctx context.Context, pageID int64, amount int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET balance = $2
		WHERE id = $1
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, pageID, amount)
	if err != nil {
		return fmt.Errorf("set page balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPageNotFound
	}

	return nil
}

// AdjustVoteTotals moves the tallies and returns the updated totals
func (r *PostgresPageRepository) AdjustVoteTotals(ctx context.Context, pageID int64, likes, dislikes int64) (*models.VoteTally, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET total_likes = total_likes + $2, total_dislikes = total_dislikes + $3
		WHERE id = $1
		RETURNING total_likes, total_dislikes
	`, r.tables.Pages)

	tally := models.VoteTally{PageID: pageID}
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, pageID, likes, dislikes).Scan(&tally.TotalLikes, &tally.TotalDislikes)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.ErrPageNotFound
		}
		return nil, fmt.Errorf("adjust vote totals: %w", err)
	}

	return &tally, nil
}

func (r *PostgresPageRepository) insertOwners(ctx context.Context, pageID int64, owners []string) error {
	executor := GetExecutor(ctx, r.pool)
	insert := fmt.Sprintf(`
		INSERT INTO %s (page_id, position, address)
		VALUES ($1, $2, $3)
	`, r.tables.Owners)

	for position, address := range owners {
		if _, err := executor.Exec(ctx, insert, pageID, position, address); err != nil {
			return fmt.Errorf("insert owner: %w", err)
		}
	}
	return nil
}

func (r *PostgresPageRepository) listOwners(ctx context.Context, pageID int64) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT address FROM %s
		WHERE page_id = $1
		ORDER BY position
	`, r.tables.Owners)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	return owners, nil
}
