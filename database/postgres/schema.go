package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/database/internal"
)

var recordTableSchema = internal.Schema{
	"id":           {Name: "id", DataType: "text", Nullable: false},
	"url":          {Name: "url", DataType: "text", Nullable: true},
	"content_type": {Name: "content_type", DataType: "text", Nullable: true},
	"created_at":   {Name: "created_at", DataType: "text", Nullable: true},
	"note":         {Name: "note", DataType: "text", Nullable: true},
}

// ValidateSchema checks that the record table exists in the current schema
// with the expected columns.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables gallery.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := pool.Query(ctx, query, tables.MetaData)
	if err != nil {
		return fmt.Errorf("validate schema %s: query columns: %w", tables.MetaData, err)
	}
	defer rows.Close()

	actual := internal.Schema{}
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return fmt.Errorf("validate schema %s: scan column: %w", tables.MetaData, err)
		}
		actual[name] = internal.Column{Name: name, DataType: dataType, Nullable: nullable == "YES"}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate schema %s: rows error: %w", tables.MetaData, err)
	}

	if len(actual) == 0 {
		return fmt.Errorf("validate schema %s: table does not exist", tables.MetaData)
	}

	if err := internal.CompareSchema(tables.MetaData, recordTableSchema, actual); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.MetaData, err)
	}
	return nil
}
