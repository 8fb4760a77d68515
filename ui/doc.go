// Package ui renders the gallery's single browser page.
//
// The server only renders the shell; the embedded script drives the
// presign, upload and save flow against the JSON API and renders the grid
// from /api/db/list.
package ui
