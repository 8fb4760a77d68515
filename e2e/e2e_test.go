package e2e_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/clientcli"
	"github.com/sagarc03/gallery/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_Lifecycle_SQLite runs the upload, edit and delete lifecycle against SQLite.
func TestE2E_Lifecycle_SQLite(t *testing.T) {
	runLifecycleTests(t, startGallery(t, sqliteConfig(t)))
}

// TestE2E_Lifecycle_Postgres runs the same lifecycle against PostgreSQL.
func TestE2E_Lifecycle_Postgres(t *testing.T) {
	dsn := getSharedPostgresDatabase(t)

	runLifecycleTests(t, startGallery(t, database.Config{
		Type:  "postgres",
		DSN:   dsn,
		Table: "uploads_lifecycle",
	}))
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func httpGet(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec,noctx // test server URL
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// runLifecycleTests contains the shared lifecycle test logic.
func runLifecycleTests(t *testing.T, srv *galleryServer) {
	t.Helper()
	ctx := context.Background()
	client := srv.Client

	var item gallery.Record

	t.Run("health reports ok", func(t *testing.T) {
		health, err := client.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ok", health.Status)
		assert.NotEmpty(t, health.TS)
	})

	t.Run("list starts empty", func(t *testing.T) {
		items, err := client.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("upload presigns, puts and saves", func(t *testing.T) {
		path := writeTempFile(t, "my cat.txt", "meow")

		result, err := client.Upload(ctx, clientcli.UploadOptions{
			LocalPath:   path,
			ContentType: "text/plain",
			Note:        "first",
		})
		require.NoError(t, err)

		item = result.Item
		assert.Equal(t, int64(4), result.Size)
		assert.True(t, strings.HasPrefix(item.ID, "uploads/"), item.ID)
		assert.True(t, strings.HasSuffix(item.ID, "_my_cat.txt"), item.ID)
		assert.Equal(t, "text/plain", item.ContentType)
		assert.Equal(t, "first", item.Note)
		assert.NotEmpty(t, item.CreatedAt)
		assert.True(t, srv.Bucket.has(item.ID))
	})

	t.Run("public url serves the object", func(t *testing.T) {
		status, body := httpGet(t, item.URL)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "meow", body)
	})

	t.Run("list returns the saved record", func(t *testing.T) {
		items, err := client.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, item, items[0])
	})

	t.Run("newer uploads list first", func(t *testing.T) {
		second := gallery.Record{ID: "uploads/9999999999999_00000000_later.txt", URL: "https://example.com/later"}
		note := "later"
		saved, err := client.Save(ctx, gallery.SaveRequest{ID: second.ID, URL: second.URL, Note: &note})
		require.NoError(t, err)

		items, err := client.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.GreaterOrEqual(t, items[0].CreatedAt, items[1].CreatedAt)

		results, err := client.Delete(ctx, []string{saved.ID})
		require.NoError(t, err)
		require.False(t, clientcli.HasDeleteErrors(results))
	})

	t.Run("update note", func(t *testing.T) {
		note := "edited"
		rec, err := client.Update(ctx, gallery.UpdateRequest{ID: item.ID, Note: &note})
		require.NoError(t, err)
		assert.Equal(t, "edited", rec.Note)
		assert.Equal(t, item.URL, rec.URL)
		assert.Equal(t, item.CreatedAt, rec.CreatedAt)
	})

	t.Run("empty note clears it", func(t *testing.T) {
		empty := ""
		rec, err := client.Update(ctx, gallery.UpdateRequest{ID: item.ID, Note: &empty})
		require.NoError(t, err)
		assert.Empty(t, rec.Note)
	})

	t.Run("update url", func(t *testing.T) {
		newURL := "https://cdn.example.com/cat.txt"
		rec, err := client.Update(ctx, gallery.UpdateRequest{ID: item.ID, URL: &newURL})
		require.NoError(t, err)
		assert.Equal(t, newURL, rec.URL)
	})

	t.Run("ids outside the upload prefix are rejected", func(t *testing.T) {
		_, err := client.Save(ctx, gallery.SaveRequest{ID: "private/secret.txt", URL: "https://x"})
		require.ErrorIs(t, err, clientcli.ErrBadRequest)

		results, err := client.Delete(ctx, []string{"private/secret.txt"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, clientcli.ErrBadRequest)
	})

	t.Run("delete removes record and object", func(t *testing.T) {
		results, err := client.Delete(ctx, []string{item.ID})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)
		assert.Equal(t, gallery.Deleted{DDB: true, S3: true}, results[0].Deleted)
		assert.False(t, srv.Bucket.has(item.ID))

		items, err := client.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

// TestE2E_DeleteWithBucketFailure checks that a failed object removal still
// deletes the record and reports the orphan.
func TestE2E_DeleteWithBucketFailure(t *testing.T) {
	ctx := context.Background()
	srv := startGallery(t, sqliteConfig(t))

	result, err := srv.Client.Upload(ctx, clientcli.UploadOptions{
		LocalPath: writeTempFile(t, "orphan.png", "\x89PNG"),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.Item.ContentType)

	srv.Bucket.setFailDeletes(true)

	results, err := srv.Client.Delete(ctx, []string{result.Item.ID})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Equal(t, gallery.Deleted{DDB: true, S3: false}, results[0].Deleted)
	assert.True(t, srv.Bucket.has(result.Item.ID), "object stays behind")

	items, err := srv.Client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// TestE2E_RestartKeepsRecords checks that records survive reconnecting to the
// same database file.
func TestE2E_RestartKeepsRecords(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	first := startGallery(t, cfg)
	note := "persisted"
	saved, err := first.Client.Save(ctx, gallery.SaveRequest{
		ID:   "uploads/1700000000000_abcdef01_keep.txt",
		URL:  "https://example.com/keep.txt",
		Note: &note,
	})
	require.NoError(t, err)

	second := startGallery(t, cfg)
	items, err := second.Client.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, saved, items[0])
}

func TestE2E_PageAndStatic(t *testing.T) {
	srv := startGallery(t, sqliteConfig(t))

	status, body := httpGet(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "E2E Gallery")
	assert.Contains(t, body, srv.Bucket.server.URL)

	status, body = httpGet(t, srv.URL+"/static/app.js")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/api/s3/presign")

	status, _ = httpGet(t, srv.URL+"/api/nope")
	assert.Equal(t, http.StatusNotFound, status)
}
