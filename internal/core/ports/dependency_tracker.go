package ports

// DependencyTracker records which shared files each page was built from.
//
//go:generate mockgen -source=dependency_tracker.go -destination=mocks/mock_dependency_tracker.go -package=mocks
type DependencyTracker interface {
	// Add records that file depends on dependency. Repeated pairs are ignored.
	Add(file, dependency string)
	// Reverse returns the files that registered dependency, sorted.
	// An unknown dependency yields an empty slice.
	Reverse(dependency string) []string
	// Dependencies returns the dependencies of file in insertion order.
	Dependencies(file string) []string
	// Forget drops every edge whose source is file.
	Forget(file string)
	// Save writes every edge to the file at path.
	Save(path string) error
	// Load replaces the edges with those persisted at path.
	// A missing file leaves the tracker empty and is not an error.
	Load(path string) error
}
