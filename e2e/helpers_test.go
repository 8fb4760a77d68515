package e2e_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/clientcli"
	"github.com/sagarc03/gallery/database"
	galleryhttp "github.com/sagarc03/gallery/http"
	"github.com/stretchr/testify/require"
)

// bucket is an in-process stand-in for an S3 bucket. It honours presigned
// PUTs the way S3 does: the signed content type must match the request.
type bucket struct {
	server *httptest.Server

	mu          sync.Mutex
	objects     map[string]object
	failDeletes bool
}

type object struct {
	contentType string
	data        []byte
}

func newBucket(t *testing.T) *bucket {
	t.Helper()

	b := &bucket{objects: make(map[string]object)}
	b.server = httptest.NewServer(http.HandlerFunc(b.serveHTTP))
	t.Cleanup(b.server.Close)
	return b
}

func (b *bucket) serveHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/upload/"):
		key := strings.TrimPrefix(r.URL.Path, "/upload/")
		if r.Header.Get("Content-Type") != r.URL.Query().Get("content-type") {
			http.Error(w, "SignatureDoesNotMatch", http.StatusForbidden)
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.objects[key] = object{contentType: r.Header.Get("Content-Type"), data: data}
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodGet:
		key := strings.TrimPrefix(r.URL.Path, "/")
		b.mu.Lock()
		obj, ok := b.objects[key]
		b.mu.Unlock()
		if !ok {
			http.Error(w, "NoSuchKey", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		_, _ = w.Write(obj.data)

	default:
		http.Error(w, "MethodNotAllowed", http.StatusMethodNotAllowed)
	}
}

func (b *bucket) PresignPut(_ context.Context, key, contentType string, expires time.Duration) (string, error) {
	q := url.Values{}
	q.Set("content-type", contentType)
	q.Set("expires", expires.String())
	return b.server.URL + "/upload/" + key + "?" + q.Encode(), nil
}

func (b *bucket) PublicURL(key string) string {
	return b.server.URL + "/" + key
}

func (b *bucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failDeletes {
		return errors.New("AccessDenied")
	}
	delete(b.objects, key)
	return nil
}

func (b *bucket) setFailDeletes(fail bool) {
	b.mu.Lock()
	b.failDeletes = fail
	b.mu.Unlock()
}

func (b *bucket) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

// galleryServer is a running gallery with its bucket and a client for it.
type galleryServer struct {
	URL    string
	Bucket *bucket
	Client *clientcli.Client
}

// startGallery wires the given metadata backend, an in-process bucket and the
// HTTP handler together behind an httptest server.
func startGallery(t *testing.T, dbCfg database.Config) *galleryServer {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, database.Init(ctx, dbCfg), "init database")

	repo, cleanup, err := database.Connect(ctx, dbCfg)
	require.NoError(t, err, "connect database")
	t.Cleanup(cleanup)

	b := newBucket(t)

	service, err := gallery.NewGalleryService(repo, b, gallery.ServiceConfig{UploadPrefix: "uploads/"})
	require.NoError(t, err)

	handler := galleryhttp.NewHandler(&galleryhttp.HandlerConfig{
		Title:     "E2E Gallery",
		BucketURL: b.server.URL,
	}, service)

	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL})
	require.NoError(t, err)

	return &galleryServer{URL: server.URL, Bucket: b, Client: client}
}

func sqliteConfig(t *testing.T) database.Config {
	t.Helper()
	return database.Config{
		Type:  "sqlite",
		DSN:   filepath.Join(t.TempDir(), "gallery.db"),
		Table: "uploads",
	}
}
