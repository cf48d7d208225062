package ports

// Hasher computes content digests.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Digest returns the fixed-width hex digest of the file's current bytes.
	Digest(path string) (string, error)
}
