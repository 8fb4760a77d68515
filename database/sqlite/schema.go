package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// ValidateSchema checks that the record table exists with the expected columns.
func ValidateSchema(ctx context.Context, db *sql.DB, tables gallery.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	exists, err := tableExists(ctx, db, tables.MetaData)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.MetaData, err)
	}
	if !exists {
		return fmt.Errorf("validate schema %s: table does not exist", tables.MetaData)
	}

	actual, err := tableColumns(ctx, db, tables.MetaData)
	if err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.MetaData, err)
	}

	if err := internal.CompareSchema(tables.MetaData, recordTableSchema, actual); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.MetaData, err)
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var name string
	query := `SELECT name FROM sqlite_master WHERE type='table' AND name=?`
	err := db.QueryRowContext(ctx, query, tableName).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return true, nil
}

func tableColumns(ctx context.Context, db *sql.DB, tableName string) (internal.Schema, error) {
	query := fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(tableName))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols := internal.Schema{}
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, dataType   string
			dfltValue        sql.NullString
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols[name] = internal.Column{Name: name, DataType: dataType, Nullable: notNull == 0}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return cols, nil
}
