package sqlite_test

import (
	"context"
	"testing"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepo_InvalidTable(t *testing.T) {
	db := openTestDB(t)

	_, err := sqlite.NewRepo(db, gallery.Tables{MetaData: `bad"name`})
	assert.Error(t, err)
}

func TestRepo_PutAndScan(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	rec := gallery.Record{
		ID:          "uploads/1_aa_cat.png",
		URL:         "https://b.s3.us-east-1.amazonaws.com/uploads/1_aa_cat.png",
		ContentType: "image/png",
		CreatedAt:   "2024-06-01T00:00:00.000Z",
		Note:        "cat",
	}
	require.NoError(t, repo.Put(ctx, rec))

	items, err := repo.Scan(ctx, gallery.ListLimit)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, rec, items[0])
}

func TestRepo_Put_Overwrites(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	first := gallery.Record{ID: "uploads/a", URL: "https://x/1", ContentType: "image/png", CreatedAt: "2024-01-01T00:00:00.000Z", Note: "old"}
	second := gallery.Record{ID: "uploads/a", URL: "https://x/2", ContentType: "image/jpeg", CreatedAt: "2024-02-01T00:00:00.000Z"}

	require.NoError(t, repo.Put(ctx, first))
	require.NoError(t, repo.Put(ctx, second))

	items, err := repo.Scan(ctx, gallery.ListLimit)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second, items[0], "note from the first put must not survive")
}

func TestRepo_Scan_Limit(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	for i := range 5 {
		require.NoError(t, repo.Put(ctx, gallery.Record{ID: "uploads/" + string(rune('a'+i)), URL: "u"}))
	}

	items, err := repo.Scan(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestRepo_Scan_Empty(t *testing.T) {
	repo := setupTestRepo(t)

	items, err := repo.Scan(context.Background(), gallery.ListLimit)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRepo_Patch(t *testing.T) {
	ctx := context.Background()

	t.Run("note keeps other columns", func(t *testing.T) {
		repo := setupTestRepo(t)
		require.NoError(t, repo.Put(ctx, gallery.Record{
			ID: "uploads/a", URL: "https://x/y", ContentType: "image/png", CreatedAt: "2024-01-01T00:00:00.000Z",
		}))

		rec, err := repo.Patch(ctx, "uploads/a", gallery.RecordPatch{Note: strPtr("dog")})
		require.NoError(t, err)
		assert.Equal(t, gallery.Record{
			ID: "uploads/a", URL: "https://x/y", ContentType: "image/png", CreatedAt: "2024-01-01T00:00:00.000Z", Note: "dog",
		}, rec)
	})

	t.Run("url and note together", func(t *testing.T) {
		repo := setupTestRepo(t)
		require.NoError(t, repo.Put(ctx, gallery.Record{ID: "uploads/a", URL: "https://old"}))

		rec, err := repo.Patch(ctx, "uploads/a", gallery.RecordPatch{Note: strPtr("n"), URL: strPtr("https://new")})
		require.NoError(t, err)
		assert.Equal(t, "https://new", rec.URL)
		assert.Equal(t, "n", rec.Note)
	})

	t.Run("empty note clears it", func(t *testing.T) {
		repo := setupTestRepo(t)
		require.NoError(t, repo.Put(ctx, gallery.Record{ID: "uploads/a", URL: "https://x", Note: "old"}))

		rec, err := repo.Patch(ctx, "uploads/a", gallery.RecordPatch{Note: strPtr("")})
		require.NoError(t, err)
		assert.Empty(t, rec.Note)
	})

	t.Run("unknown id creates partial record", func(t *testing.T) {
		repo := setupTestRepo(t)

		rec, err := repo.Patch(ctx, "uploads/ghost", gallery.RecordPatch{Note: strPtr("boo")})
		require.NoError(t, err)
		assert.Equal(t, gallery.Record{ID: "uploads/ghost", Note: "boo"}, rec)

		items, err := repo.Scan(ctx, gallery.ListLimit)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("empty patch", func(t *testing.T) {
		repo := setupTestRepo(t)

		_, err := repo.Patch(ctx, "uploads/a", gallery.RecordPatch{})
		assert.ErrorIs(t, err, gallery.ErrInvalidInput)
	})
}

func TestRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	require.NoError(t, repo.Put(ctx, gallery.Record{ID: "uploads/a", URL: "u"}))
	require.NoError(t, repo.Put(ctx, gallery.Record{ID: "uploads/b", URL: "u"}))

	require.NoError(t, repo.Delete(ctx, "uploads/a"))
	require.NoError(t, repo.Delete(ctx, "uploads/missing"))

	items, err := repo.Scan(ctx, gallery.ListLimit)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "uploads/b", items[0].ID)
}

// Save, annotate, list and delete through the service against a real table.
func TestRepo_GalleryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	service, err := gallery.NewGalleryService(repo, noopStore{}, gallery.ServiceConfig{})
	require.NoError(t, err)

	_, err = service.Save(ctx, gallery.SaveRequest{ID: "uploads/1_aa_a.png", URL: "https://x/a.png", ContentType: "image/png"})
	require.NoError(t, err)
	_, err = service.Save(ctx, gallery.SaveRequest{ID: "uploads/2_bb_b.png", URL: "https://x/b.png", Note: strPtr("second")})
	require.NoError(t, err)

	updated, err := service.Update(ctx, gallery.UpdateRequest{ID: "uploads/1_aa_a.png", Note: strPtr("first")})
	require.NoError(t, err)
	assert.Equal(t, "first", updated.Note)
	assert.Equal(t, "image/png", updated.ContentType)

	items, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	res, err := service.Delete(ctx, "uploads/1_aa_a.png")
	require.NoError(t, err)
	assert.True(t, res.Deleted.DDB)
	assert.True(t, res.Deleted.S3)

	items, err = service.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "uploads/2_bb_b.png", items[0].ID)
}
