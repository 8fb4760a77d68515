package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sagarc03/gallery"
)

// ErrorResponse represents a JSON error response. Detail carries the
// upstream error text and is only set for 5xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	writeError(w, code, ErrorResponse{Error: errCode, Message: message})
}

func writeError(w http.ResponseWriter, code int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gallery.ErrInvalidInput):
		slog.Debug("rejected request", "error", err)
		WriteError(w, http.StatusBadRequest, "invalid_input", inputMessage(err))
	case errors.Is(err, ErrBodyTooLarge):
		slog.Debug("rejected request", "error", err)
		WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
	case errors.Is(err, gallery.ErrUpstream):
		slog.Error("request error", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "upstream_error",
			Message: "Storage backend request failed",
			Detail:  err.Error(),
		})
	default:
		slog.Error("request error", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
			Detail:  err.Error(),
		})
	}
}

// inputMessage drops the operation prefix from a validation error so that
// "save uploads/x: invalid input: url is required" reads "url is required".
func inputMessage(err error) string {
	msg := err.Error()
	if _, after, found := strings.Cut(msg, gallery.ErrInvalidInput.Error()+": "); found {
		return after
	}
	return msg
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
