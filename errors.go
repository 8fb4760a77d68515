package gallery

import "errors"

var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream is returned when the object store or the metadata table fails
	ErrUpstream = errors.New("upstream store error")
)
