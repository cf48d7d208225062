package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash64 digests of file content.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if os.IsNotExist(err) {
			return 0, zerr.With(zerr.Wrap(domain.ErrNotFound, domain.ErrFileOpenFailed.Error()), "path", path)
		}
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// Digest returns the content digest of path as 16 lowercase hex characters.
func (h *Hasher) Digest(path string) (string, error) {
	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return "", err
	}
	return FormatDigest(sum), nil
}

// DigestBytes returns the digest of an in-memory buffer, formatted like Digest.
func DigestBytes(b []byte) string {
	return FormatDigest(xxhash.Sum64(b))
}

// FormatDigest renders a 64-bit sum in the fixed-width persisted form.
func FormatDigest(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
