package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagarc03/gallery"
	galleryhttp "github.com/sagarc03/gallery/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) galleryhttp.ErrorResponse {
	t.Helper()
	var body galleryhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandleError_InvalidInput(t *testing.T) {
	rec := httptest.NewRecorder()

	err := fmt.Errorf("save uploads/a: %w: url is required", gallery.ErrInvalidInput)
	galleryhttp.HandleError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "invalid_input", body.Error)
	assert.Equal(t, "url is required", body.Message)
	assert.Empty(t, body.Detail)
}

func TestHandleError_BareInvalidInput(t *testing.T) {
	rec := httptest.NewRecorder()

	galleryhttp.HandleError(rec, gallery.ErrInvalidInput)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid input", decodeError(t, rec).Message)
}

func TestHandleError_BodyTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()

	galleryhttp.HandleError(rec, fmt.Errorf("save: %w", galleryhttp.ErrBodyTooLarge))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", decodeError(t, rec).Error)
}

func TestHandleError_Upstream(t *testing.T) {
	rec := httptest.NewRecorder()

	err := fmt.Errorf("list: %w: %w", gallery.ErrUpstream, errors.New("ProvisionedThroughputExceeded"))
	galleryhttp.HandleError(rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "upstream_error", body.Error)
	assert.Contains(t, body.Detail, "ProvisionedThroughputExceeded")
}

func TestHandleError_InternalError(t *testing.T) {
	rec := httptest.NewRecorder()

	galleryhttp.HandleError(rec, errors.New("some unexpected error"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "internal_error", body.Error)
	assert.Equal(t, "some unexpected error", body.Detail)
}

func TestWriteError_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	galleryhttp.WriteError(rec, http.StatusBadRequest, "bad_request", "Invalid request")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"bad_request","message":"Invalid request"}`, rec.Body.String())
}

func TestWriteJSON_Success(t *testing.T) {
	rec := httptest.NewRecorder()

	err := galleryhttp.WriteJSON(rec, http.StatusOK, map[string]string{"key": "value"})

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"key":"value"`)
}

func TestWriteJSON_EncodingError(t *testing.T) {
	rec := httptest.NewRecorder()

	// Channels cannot be JSON encoded
	err := galleryhttp.WriteJSON(rec, http.StatusOK, make(chan int))

	assert.Error(t, err)
}
