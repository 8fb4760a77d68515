package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// DefaultPresignExpiry is how long an issued upload authorization stays valid.
const DefaultPresignExpiry = 60 * time.Second

// MetaDataRepo defines the interface for the key-value table holding Records.
// Every method is a single round-trip; there are no cross-call transactions.
type MetaDataRepo interface {
	// Put stores rec, unconditionally overwriting any record with the same id.
	Put(ctx context.Context, rec Record) error

	// Scan returns at most limit records in the backend's native order.
	Scan(ctx context.Context, limit int) ([]Record, error)

	// Patch applies the non-nil fields of patch to the record id in one atomic
	// operation and returns the record as stored afterwards.
	//
	// A missing id is not an error: the backend creates a record holding only
	// the patched attributes, as the key-value table does for a SET update.
	Patch(ctx context.Context, id string, patch RecordPatch) (Record, error)

	// Delete removes the record id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// ObjectStore defines the subset of the binary object store the gallery uses.
// Payloads never flow through the service; clients PUT them directly to the
// URL returned by PresignPut.
type ObjectStore interface {
	// PresignPut returns a URL authorizing exactly one PUT of contentType to
	// key, valid for expires.
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	// PublicURL returns the deterministic retrieval URL for key.
	PublicURL(key string) string

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// ServiceConfig holds configuration options for GalleryService.
type ServiceConfig struct {
	UploadPrefix  string
	PresignExpiry time.Duration // default: 60s
	Minter        *KeyMinter    // default: NewKeyMinter(UploadPrefix)
	Now           func() time.Time
}

// GalleryService ties the identifier rules to the metadata table and the
// object store.
type GalleryService struct {
	repo          MetaDataRepo
	store         ObjectStore
	minter        *KeyMinter
	presignExpiry time.Duration
	now           func() time.Time
}

// NewGalleryService creates a GalleryService. repo and store are long-lived
// clients built once at startup.
func NewGalleryService(repo MetaDataRepo, store ObjectStore, cfg ServiceConfig) (*GalleryService, error) {
	if repo == nil {
		return nil, errors.New("new gallery service: metadata repo is required")
	}
	if store == nil {
		return nil, errors.New("new gallery service: object store is required")
	}

	minter := cfg.Minter
	if minter == nil {
		minter = NewKeyMinter(cfg.UploadPrefix)
	}
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &GalleryService{
		repo:          repo,
		store:         store,
		minter:        minter,
		presignExpiry: expiry,
		now:           now,
	}, nil
}

// UploadPrefix returns the prefix every valid id starts with.
func (s *GalleryService) UploadPrefix() string {
	return s.minter.Prefix()
}

// guardID rejects ids outside the upload prefix before fn touches any store.
// Every mutating operation goes through it.
func guardID[T any](s *GalleryService, op, id string, fn func() (T, error)) (T, error) {
	if !s.minter.IsValidID(id) {
		var zero T
		return zero, fmt.Errorf("%s: %w: invalid or missing id", op, ErrInvalidInput)
	}
	return fn()
}

// Presign mints a key for filename and asks the object store for a
// time-limited PUT authorization scoped to that key and content type.
//
// Nothing is persisted. An authorization that is never used simply expires,
// and an object uploaded without a following Save stays an orphan.
func (s *GalleryService) Presign(ctx context.Context, filename, contentType string) (PresignResult, error) {
	if err := ctx.Err(); err != nil {
		return PresignResult{}, fmt.Errorf("presign: %w", err)
	}

	if contentType == "" {
		contentType = DefaultContentType
	}

	key := s.minter.NewKey(filename)

	uploadURL, err := s.store.PresignPut(ctx, key, contentType, s.presignExpiry)
	if err != nil {
		return PresignResult{}, fmt.Errorf("presign %s: %w: %w", key, ErrUpstream, err)
	}

	return PresignResult{
		UploadURL: uploadURL,
		Key:       key,
		PublicURL: s.store.PublicURL(key),
	}, nil
}

// Save records the metadata of an uploaded object. An existing record with
// the same id is overwritten (last writer wins).
func (s *GalleryService) Save(ctx context.Context, req SaveRequest) (Record, error) {
	return guardID(s, "save", req.ID, func() (Record, error) {
		if req.URL == "" {
			return Record{}, fmt.Errorf("save %s: %w: url is required", req.ID, ErrInvalidInput)
		}

		rec := Record{
			ID:          req.ID,
			URL:         req.URL,
			ContentType: req.ContentType,
			CreatedAt:   FormatTime(s.now()),
		}
		if rec.ContentType == "" {
			rec.ContentType = DefaultContentType
		}
		if req.Note != nil {
			rec.Note = *req.Note
		}

		if err := s.repo.Put(ctx, rec); err != nil {
			return Record{}, fmt.Errorf("save %s: %w: %w", req.ID, ErrUpstream, err)
		}
		return rec, nil
	})
}

// List returns up to ListLimit records, newest first. Records past the cap
// stay reachable by id but are not listed.
func (s *GalleryService) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	items, err := s.repo.Scan(ctx, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list: %w: %w", ErrUpstream, err)
	}
	if items == nil {
		items = []Record{}
	}

	SortNewestFirst(items)
	return items, nil
}

// SortNewestFirst orders records by createdAt descending using lexical
// comparison. A missing createdAt sorts last.
func SortNewestFirst(items []Record) {
	slices.SortStableFunc(items, func(a, b Record) int {
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
}

// Update patches the note and/or url of record id and returns the stored
// result. An empty note removes the annotation.
func (s *GalleryService) Update(ctx context.Context, req UpdateRequest) (Record, error) {
	return guardID(s, "update", req.ID, func() (Record, error) {
		patch := RecordPatch{Note: req.Note, URL: req.URL}
		if patch.IsEmpty() {
			return Record{}, fmt.Errorf("update %s: %w: nothing to update (note or url required)", req.ID, ErrInvalidInput)
		}

		rec, err := s.repo.Patch(ctx, req.ID, patch)
		if err != nil {
			return Record{}, fmt.Errorf("update %s: %w: %w", req.ID, ErrUpstream, err)
		}
		return rec, nil
	})
}

// Delete removes record id, then makes one best-effort attempt to remove the
// object under the same key.
//
// The record deletion is authoritative: once it succeeds the call succeeds,
// and the object removal is attempted even if ctx was cancelled meanwhile.
// An object store failure is logged and reported as Deleted.S3 == false; the
// record is not restored.
func (s *GalleryService) Delete(ctx context.Context, id string) (DeleteResult, error) {
	return guardID(s, "delete", id, func() (DeleteResult, error) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return DeleteResult{}, fmt.Errorf("delete %s: %w: %w", id, ErrUpstream, err)
		}

		result := DeleteResult{ID: id, Deleted: Deleted{DDB: true}}

		if err := s.store.Delete(context.WithoutCancel(ctx), id); err != nil {
			slog.Warn("object delete failed, record already removed", "id", id, "err", err)
			return result, nil
		}

		result.Deleted.S3 = true
		return result, nil
	})
}
