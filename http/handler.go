package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/ui"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

type Service interface {
	Presign(ctx context.Context, filename, contentType string) (gallery.PresignResult, error)
	Save(ctx context.Context, req gallery.SaveRequest) (gallery.Record, error)
	List(ctx context.Context) ([]gallery.Record, error)
	Update(ctx context.Context, req gallery.UpdateRequest) (gallery.Record, error)
	Delete(ctx context.Context, id string) (gallery.DeleteResult, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// Title is shown in the page header and the browser tab.
	Title string
	// BucketURL is linked from the page header. Empty hides the link.
	BucketURL string
	CORS      CORSConfig
	// Now stamps the health response. Defaults to time.Now.
	Now func() time.Time
}

// Handler serves the gallery page and its JSON API.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	h := &Handler{
		config:  *config,
		service: service,
	}
	if h.config.Now == nil {
		h.config.Now = time.Now
	}
	return h
}

type okItem struct {
	OK   bool           `json:"ok"`
	Item gallery.Record `json:"item"`
}

type okDeleted struct {
	OK      bool            `json:"ok"`
	Deleted gallery.Deleted `json:"deleted"`
}

type listResponse struct {
	Items []gallery.Record `json:"items"`
}

type healthResponse struct {
	Status string `json:"status"`
	TS     string `json:"ts"`
}

// Router returns an http.Handler serving the page, its static assets, the
// health probe and the /api routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LogRequest)
	r.Use(Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "not_found", "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	r.Get("/", h.handlePage)
	if static, err := ui.Static(); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}
	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/s3/presign", h.handlePresign)

		r.Route("/db", func(r chi.Router) {
			r.Post("/save", h.handleSave)
			r.Get("/list", h.handleList)
			r.Post("/update", h.handleUpdate)
			r.Delete("/delete", h.handleDelete)
		})
	})

	return r
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	page := ui.GalleryPage(ui.PageData{
		Title:     h.config.Title,
		BucketURL: h.config.BucketURL,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		HandleError(w, fmt.Errorf("render page: %w", err))
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		TS:     gallery.FormatTime(h.config.Now()),
	})
}

func (h *Handler) handlePresign(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	contentType := r.URL.Query().Get("contentType")

	result, err := h.service.Presign(storeContext(r), filename, contentType)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req gallery.SaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleError(w, fmt.Errorf("save: %w", err))
		return
	}

	rec, err := h.service.Save(storeContext(r), req)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, okItem{OK: true, Item: rec})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(storeContext(r))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, listResponse{Items: items})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req gallery.UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		HandleError(w, fmt.Errorf("update: %w", err))
		return
	}

	rec, err := h.service.Update(storeContext(r), req)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, okItem{OK: true, Item: rec})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		var body struct {
			ID string `json:"id"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			HandleError(w, fmt.Errorf("delete: %w", err))
			return
		}
		id = body.ID
	}

	result, err := h.service.Delete(storeContext(r), id)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, okDeleted{OK: true, Deleted: result.Deleted})
}

// storeContext keeps the request's values but not its cancellation: a store
// call that has started runs to completion even if the client goes away.
func storeContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// decodeJSON reads a single JSON value of at most MaxBodyBytes into dst.
// An empty body leaves dst untouched; any other decoding failure wraps
// gallery.ErrInvalidInput or ErrBodyTooLarge.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))

	err := dec.Decode(dst)
	var maxErr *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &maxErr):
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
	default:
		return fmt.Errorf("%w: malformed JSON body: %w", gallery.ErrInvalidInput, err)
	}
}
