package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunSchema creates all tables if they do not exist and seeds the page id
// counter at zero (so the first allocated id is 1). Safe to run repeatedly.
func RunSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				name  TEXT PRIMARY KEY,
				value BIGINT NOT NULL
			)`, tables.Counters),
		fmt.Sprintf(`
			INSERT INTO %s (name, value) VALUES ('page_id', 0)
			ON CONFLICT (name) DO NOTHING`, tables.Counters),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id                 BIGINT PRIMARY KEY,
				name               TEXT NOT NULL,
				thumbnail          TEXT NOT NULL DEFAULT '',
				current_html       TEXT NOT NULL,
				ownership_type     TEXT NOT NULL,
				approval_threshold INT NOT NULL DEFAULT 0,
				update_fee         BIGINT NOT NULL DEFAULT 0 CHECK (update_fee >= 0),
				immutable          BOOLEAN NOT NULL DEFAULT FALSE,
				balance            BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
				total_likes        BIGINT NOT NULL DEFAULT 0 CHECK (total_likes >= 0),
				total_dislikes     BIGINT NOT NULL DEFAULT 0 CHECK (total_dislikes >= 0),
				next_request_id    BIGINT NOT NULL DEFAULT 1,
				created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Pages),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				page_id  BIGINT NOT NULL REFERENCES %s(id),
				position INT NOT NULL,
				address  TEXT NOT NULL,
				PRIMARY KEY (page_id, address)
			)`, tables.Owners, tables.Pages),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				page_id         BIGINT NOT NULL REFERENCES %s(id),
				id              BIGINT NOT NULL,
				proposer        TEXT NOT NULL,
				new_name        TEXT NOT NULL DEFAULT '',
				new_thumbnail   TEXT NOT NULL DEFAULT '',
				new_html        TEXT NOT NULL DEFAULT '',
				state           TEXT NOT NULL,
				fee_attached    BIGINT NOT NULL DEFAULT 0,
				open_submission BOOLEAN NOT NULL DEFAULT FALSE,
				created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				executed_at     TIMESTAMPTZ,
				PRIMARY KEY (page_id, id)
			)`, tables.Requests, tables.Pages),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				page_id    BIGINT NOT NULL,
				request_id BIGINT NOT NULL,
				address    TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (page_id, request_id, address),
				FOREIGN KEY (page_id, request_id) REFERENCES %s(page_id, id)
			)`, tables.Approvals, tables.Requests),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				page_id    BIGINT NOT NULL REFERENCES %s(id),
				address    TEXT NOT NULL,
				state      TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (page_id, address)
			)`, tables.Votes, tables.Pages),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				address TEXT PRIMARY KEY,
				balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
			)`, tables.Accounts),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run schema: %w", err)
		}
	}

	return nil
}

// DropTables removes every table, children first. Used by the seed tool's
// --drop-tables flag; never call this in production.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	ordered := []string{
		tables.Approvals,
		tables.Requests,
		tables.Votes,
		tables.Owners,
		tables.Pages,
		tables.Counters,
		tables.Accounts,
	}

	for _, table := range ordered {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}

	return nil
}
