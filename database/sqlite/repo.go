// Package sqlite implements gallery.MetaDataRepo on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/database/internal"
)

var selectColumns = strings.Join(internal.RecordColumns, ", ")

type Repo struct {
	db        *sql.DB
	tableName string
}

func NewRepo(db *sql.DB, tables gallery.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{db: db, tableName: quoteIdentifier(tables.MetaData)}, nil
}

// Put replaces the whole row for rec.ID.
func (r *Repo) Put(ctx context.Context, rec gallery.Record) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, url, content_type, created_at, note)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET url = excluded.url,
			content_type = excluded.content_type,
			created_at = excluded.created_at,
			note = excluded.note`, r.tableName)

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, nullString(rec.URL), nullString(rec.ContentType), nullString(rec.CreatedAt), nullString(rec.Note),
	)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// Scan returns up to limit rows in rowid order.
func (r *Repo) Scan(ctx context.Context, limit int) ([]gallery.Record, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s LIMIT ?`, selectColumns, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []gallery.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: rows error: %w", err)
	}
	return records, nil
}

// Patch upserts the patched columns in a single statement. An empty note is
// stored as NULL.
func (r *Repo) Patch(ctx context.Context, id string, patch gallery.RecordPatch) (gallery.Record, error) {
	if patch.IsEmpty() {
		return gallery.Record{}, fmt.Errorf("patch %s: %w: empty patch", id, gallery.ErrInvalidInput)
	}

	columns := []string{"id"}
	args := []any{id}
	var sets []string

	if patch.Note != nil {
		columns = append(columns, "note")
		args = append(args, nullString(*patch.Note))
		sets = append(sets, "note = excluded.note")
	}
	if patch.URL != nil {
		columns = append(columns, "url")
		args = append(args, nullString(*patch.URL))
		sets = append(sets, "url = excluded.url")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (%s) VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET %s
		RETURNING %s`,
		r.tableName, strings.Join(columns, ", "), placeholders, strings.Join(sets, ", "), selectColumns)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return gallery.Record{}, fmt.Errorf("patch %s: %w", id, err)
	}
	return rec, nil
}

// Delete removes the row for id. A missing row is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.tableName) //nolint:gosec // G201: table name is validated

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (gallery.Record, error) {
	var (
		rec                            gallery.Record
		url, contentType, createdAt, n sql.NullString
	)
	if err := row.Scan(&rec.ID, &url, &contentType, &createdAt, &n); err != nil {
		return gallery.Record{}, err
	}
	rec.URL = url.String
	rec.ContentType = contentType.String
	rec.CreatedAt = createdAt.String
	rec.Note = n.String
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
