package gallery

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeyMinter produces object keys scoped to a fixed upload prefix.
//
// A key has the shape <prefix><unix-millis>_<8 hex nonce>_<basename>. The
// timestamp and nonce together make collisions negligible without any
// coordination between callers.
type KeyMinter struct {
	prefix string
	now    func() time.Time
	nonce  func() string
}

// MinterOption configures a KeyMinter.
type MinterOption func(*KeyMinter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MinterOption {
	return func(m *KeyMinter) {
		m.now = now
	}
}

// WithNonce overrides the nonce source. The function must return 8 hex chars.
func WithNonce(nonce func() string) MinterOption {
	return func(m *KeyMinter) {
		m.nonce = nonce
	}
}

// NewKeyMinter creates a KeyMinter for prefix. An empty prefix falls back to
// DefaultUploadPrefix.
func NewKeyMinter(prefix string, opts ...MinterOption) *KeyMinter {
	if prefix == "" {
		prefix = DefaultUploadPrefix
	}
	m := &KeyMinter{
		prefix: prefix,
		now:    time.Now,
		nonce:  randomNonce,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prefix returns the upload prefix every key starts with.
func (m *KeyMinter) Prefix() string {
	return m.prefix
}

// NewKey mints a fresh key for filenameHint. It never fails.
func (m *KeyMinter) NewKey(filenameHint string) string {
	var b strings.Builder
	b.WriteString(m.prefix)
	b.WriteString(strconv.FormatInt(m.now().UnixMilli(), 10))
	b.WriteByte('_')
	b.WriteString(m.nonce())
	b.WriteByte('_')
	b.WriteString(SanitizeFilename(filenameHint))
	return b.String()
}

// IsValidID reports whether id belongs to this minter's prefix.
func (m *KeyMinter) IsValidID(id string) bool {
	return IsValidID(m.prefix, id)
}

// IsValidID reports whether id is non-empty and starts with prefix.
func IsValidID(prefix, id string) bool {
	return id != "" && strings.HasPrefix(id, prefix)
}

// SanitizeFilename strips any directory component from name and replaces
// every rune outside [A-Za-z0-9._-] with an underscore. Both '/' and '\' count
// as separators. An empty result becomes DefaultFilename.
func SanitizeFilename(name string) string {
	name = strings.TrimRight(name, `/\`)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return DefaultFilename
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isKeyRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	default:
		return false
	}
}

// randomNonce returns the first 8 hex characters of a random (v4) UUID.
func randomNonce() string {
	return uuid.NewString()[:8]
}
