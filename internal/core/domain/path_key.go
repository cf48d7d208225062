package domain

import (
	"path/filepath"
	"strings"
	"unique"
)

// PathKey is an interned, cleaned file path.
// The build cache and the dependency tracker key their maps by PathKey so that
// "content/./a.md" and "content/a.md" address the same entry, and so that a layout
// path shared by hundreds of pages is stored once.
type PathKey struct {
	h unique.Handle[string]
}

// NewPathKey cleans p and interns the result.
func NewPathKey(p string) PathKey {
	return PathKey{h: unique.Make(filepath.Clean(p))}
}

// String returns the cleaned path.
func (k PathKey) String() string {
	if k.IsZero() {
		return ""
	}
	return k.h.Value()
}

// IsZero reports whether k was never assigned.
func (k PathKey) IsZero() bool {
	return k == PathKey{}
}

// Compare orders keys by their path.
func (k PathKey) Compare(other PathKey) int {
	return strings.Compare(k.String(), other.String())
}

// MarshalText implements encoding.TextMarshaler.
func (k PathKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PathKey) UnmarshalText(text []byte) error {
	*k = NewPathKey(string(text))
	return nil
}
