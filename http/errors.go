package http

import "errors"

// ErrBodyTooLarge is returned when a JSON request body exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")
