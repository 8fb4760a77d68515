package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sagarc03/gallery"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client talks to a gallery server's JSON API. Uploads go straight to the
// object store through the presigned URL the server returns.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	cfg = cfg.WithDefaults()

	c := &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Health calls /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// Presign asks the server for an upload authorization.
func (c *Client) Presign(ctx context.Context, filename, contentType string) (gallery.PresignResult, error) {
	q := url.Values{}
	q.Set("filename", filename)
	if contentType != "" {
		q.Set("contentType", contentType)
	}

	var out gallery.PresignResult
	err := c.do(ctx, http.MethodGet, "/api/s3/presign?"+q.Encode(), nil, &out)
	return out, err
}

// Upload runs the three-step flow for one local file: presign, PUT the
// bytes to the object store, then save the record.
//
// When the PUT succeeds but the save fails, the object is left in the
// bucket without a record and the error says so.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (UploadResult, error) {
	if opts.LocalPath == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrEmptyPath)
	}

	file, err := os.Open(opts.LocalPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return UploadResult{}, fmt.Errorf("stat file: %w", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = detectContentType(opts.LocalPath)
	}

	auth, err := c.Presign(ctx, filepath.Base(opts.LocalPath), contentType)
	if err != nil {
		return UploadResult{}, fmt.Errorf("presign: %w", err)
	}

	if err := c.put(ctx, auth.UploadURL, contentType, file, info.Size()); err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", auth.Key, err)
	}

	req := gallery.SaveRequest{
		ID:          auth.Key,
		URL:         auth.PublicURL,
		ContentType: contentType,
	}
	if opts.Note != "" {
		req.Note = &opts.Note
	}

	rec, err := c.Save(ctx, req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("save %s (object uploaded without a record): %w", auth.Key, err)
	}

	return UploadResult{
		LocalPath: opts.LocalPath,
		Size:      info.Size(),
		Item:      rec,
	}, nil
}

// put streams body to a presigned URL.
func (c *Client) put(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}
	return nil
}

// Save stores a record.
func (c *Client) Save(ctx context.Context, req gallery.SaveRequest) (gallery.Record, error) {
	var out itemResponse
	err := c.do(ctx, http.MethodPost, "/api/db/save", req, &out)
	return out.Item, err
}

// List returns the newest records, as ordered by the server.
func (c *Client) List(ctx context.Context) ([]gallery.Record, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/api/db/list", nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []gallery.Record{}
	}
	return out.Items, nil
}

// Update patches the note and/or url of a record.
func (c *Client) Update(ctx context.Context, req gallery.UpdateRequest) (gallery.Record, error) {
	if req.Note == nil && req.URL == nil {
		return gallery.Record{}, fmt.Errorf("update %s: %w", req.ID, ErrNothingToSet)
	}

	var out itemResponse
	err := c.do(ctx, http.MethodPost, "/api/db/update", req, &out)
	return out.Item, err
}

// Delete removes each record and its object. It continues past failures,
// collecting one result per id.
func (c *Client) Delete(ctx context.Context, ids []string) ([]DeleteResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}

	results := make([]DeleteResult, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var out deleteResponse
		err := c.do(ctx, http.MethodDelete, "/api/db/delete?id="+url.QueryEscape(id), nil, &out)
		results = append(results, DeleteResult{ID: id, Deleted: out.Deleted, Err: err})
	}

	return results, nil
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// do sends a JSON request to the server and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parseServerError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// detectContentType returns MIME type based on file extension.
func detectContentType(path string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		return gallery.DefaultContentType
	}
	return mimeType
}
