package ports

// BuildCache remembers the digest each source had when it was last built.
//
//go:generate mockgen -source=build_cache.go -destination=mocks/mock_build_cache.go -package=mocks
type BuildCache interface {
	// Add records digest for path, replacing any previous digest.
	Add(path, digest string)
	// Get returns the stored digest for path.
	Get(path string) (string, bool)
	// Remove forgets path.
	Remove(path string)
	// ShouldRebuild reports whether path is unknown or its content digest changed.
	ShouldRebuild(path string) bool
	// Save writes every entry to the file at path.
	Save(path string) error
	// Load replaces the entries with those persisted at path.
	// A missing file leaves the cache empty and is not an error.
	Load(path string) error
}
