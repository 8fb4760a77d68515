// Package postgres implements gallery.MetaDataRepo on PostgreSQL using pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/database/internal"
)

var selectColumns = strings.Join(internal.RecordColumns, ", ")

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tables gallery.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tableName: pgx.Identifier{tables.MetaData}.Sanitize()}, nil
}

// Put replaces the whole row for rec.ID.
func (r *Repo) Put(ctx context.Context, rec gallery.Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, url, content_type, created_at, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET url = EXCLUDED.url,
			content_type = EXCLUDED.content_type,
			created_at = EXCLUDED.created_at,
			note = EXCLUDED.note
	`, r.tableName)

	_, err := r.pool.Exec(ctx, query,
		rec.ID, nullable(rec.URL), nullable(rec.ContentType), nullable(rec.CreatedAt), nullable(rec.Note),
	)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// Scan returns up to limit rows in heap order.
func (r *Repo) Scan(ctx context.Context, limit int) ([]gallery.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s LIMIT $1`, selectColumns, r.tableName)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	defer rows.Close()

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

// Patch upserts the patched columns in a single statement and returns the
// resulting row.
func (r *Repo) Patch(ctx context.Context, id string, patch gallery.RecordPatch) (gallery.Record, error) {
	if patch.IsEmpty() {
		return gallery.Record{}, fmt.Errorf("patch %s: %w: empty patch", id, gallery.ErrInvalidInput)
	}

	columns := []string{"id"}
	placeholders := []string{"$1"}
	args := []any{id}
	var sets []string

	add := func(column, value string) {
		args = append(args, nullable(value))
		columns = append(columns, column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}
	if patch.Note != nil {
		add("note", *patch.Note)
	}
	if patch.URL != nil {
		add("url", *patch.URL)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET %s
		RETURNING %s
	`, r.tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", "), strings.Join(sets, ", "), selectColumns)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return gallery.Record{}, fmt.Errorf("patch %s: %w", id, err)
	}
	return rec, nil
}

// Delete removes the row for id. A missing row is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tableName)

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func scanRecord(row pgx.Row) (gallery.Record, error) {
	var (
		rec                               gallery.Record
		url, contentType, createdAt, note *string
	)
	if err := row.Scan(&rec.ID, &url, &contentType, &createdAt, &note); err != nil {
		return gallery.Record{}, err
	}
	rec.URL = deref(url)
	rec.ContentType = deref(contentType)
	rec.CreatedAt = deref(createdAt)
	rec.Note = deref(note)
	return rec, nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
