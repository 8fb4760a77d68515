package clientcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
)

// Errors for input validation.
var (
	ErrConfigRequired = errors.New("config is required")
	ErrNoIDs          = errors.New("no ids provided")
	ErrEmptyPath      = errors.New("path is required")
	ErrNothingToSet   = errors.New("nothing to update")
)

// APIError represents an error response from the gallery server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server error: %d", e.StatusCode)
	if e.Message != "" {
		msg += " - " + e.Message
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrBadRequest is returned for rejected ids, missing urls and malformed bodies (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrNotFound is returned when the route does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUpstream is returned when the server's object store or table failed (500).
	ErrUpstream = &APIError{StatusCode: http.StatusInternalServerError}
)

// parseServerError decodes the server's JSON error body. Bodies that are
// not JSON are kept verbatim in Message.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}

	apiErr.Code = payload.Error
	apiErr.Message = payload.Message
	apiErr.Detail = payload.Detail
	return apiErr
}
