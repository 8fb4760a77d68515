// Package redis implements gallery.MetaDataRepo on Redis. Each record is a
// hash stored under "<table>:<id>".
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sagarc03/gallery"
)

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 100

type Repo struct {
	client redis.UniversalClient
	prefix string
}

func NewRepo(client redis.UniversalClient, tables gallery.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{client: client, prefix: tables.MetaData + ":"}, nil
}

// Open parses a redis:// URL and verifies the connection.
func Open(ctx context.Context, dsn string) (*redis.Client, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *Repo) key(id string) string {
	return r.prefix + id
}

// fields flattens the non-empty attributes of rec for HSET.
func fields(rec gallery.Record) []any {
	out := []any{"id", rec.ID}
	for _, kv := range [][2]string{
		{"url", rec.URL},
		{"contentType", rec.ContentType},
		{"createdAt", rec.CreatedAt},
		{"note", rec.Note},
	} {
		if kv[1] != "" {
			out = append(out, kv[0], kv[1])
		}
	}
	return out
}

// Put replaces the hash for rec.ID atomically.
func (r *Repo) Put(ctx context.Context, rec gallery.Record) error {
	key := r.key(rec.ID)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields(rec)...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// Scan walks the keyspace with SCAN and loads up to limit hashes in one pipeline.
func (r *Repo) Scan(ctx context.Context, limit int) ([]gallery.Record, error) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	keys := collectKeys(func() (string, bool) {
		if !iter.Next(ctx) {
			return "", false
		}
		return iter.Val(), true
	}, limit)
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	records := []gallery.Record{}
	if len(keys) == 0 {
		return records, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = pipe.HGetAll(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan: load: %w", err)
	}

	for _, cmd := range cmds {
		// A key deleted between SCAN and HGETALL comes back empty.
		if len(cmd.Val()) == 0 {
			continue
		}
		var rec gallery.Record
		if err := cmd.Scan(&rec); err != nil {
			return nil, fmt.Errorf("scan: decode: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Patch applies the patch and reads the hash back inside one MULTI/EXEC.
func (r *Repo) Patch(ctx context.Context, id string, patch gallery.RecordPatch) (gallery.Record, error) {
	if patch.IsEmpty() {
		return gallery.Record{}, fmt.Errorf("patch %s: %w: empty patch", id, gallery.ErrInvalidInput)
	}

	key := r.key(id)
	set := []any{"id", id}
	removeNote := false

	if patch.Note != nil {
		if *patch.Note == "" {
			removeNote = true
		} else {
			set = append(set, "note", *patch.Note)
		}
	}
	if patch.URL != nil {
		set = append(set, "url", *patch.URL)
	}

	var get *redis.MapStringStringCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, set...)
		if removeNote {
			pipe.HDel(ctx, key, "note")
		}
		get = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		return gallery.Record{}, fmt.Errorf("patch %s: %w", id, err)
	}

	var rec gallery.Record
	if err := get.Scan(&rec); err != nil {
		return gallery.Record{}, fmt.Errorf("patch %s: decode: %w", id, err)
	}
	return rec, nil
}

// Delete removes the hash for id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// collectKeys drains next until it has limit distinct keys. SCAN may return
// a key more than once while the keyspace is rehashed.
func collectKeys(next func() (string, bool), limit int) []string {
	keys := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for len(keys) < limit {
		k, ok := next()
		if !ok {
			break
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
