package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/gallery"
)

// Migrate creates the record table if it does not exist. It is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables gallery.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := createRecordTable(ctx, pool, tables.MetaData); err != nil {
		return fmt.Errorf("migrate up %s: %w", tables.MetaData, err)
	}
	return nil
}

// DropTables removes the record table.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables gallery.Tables) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{tables.MetaData}.Sanitize())

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migrate down %s: %w", tables.MetaData, err)
	}
	return nil
}

func createRecordTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			url TEXT,
			content_type TEXT,
			created_at TEXT,
			note TEXT
		)
	`, pgx.Identifier{tableName}.Sanitize())

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create record table: %w", err)
	}
	return nil
}
