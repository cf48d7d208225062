package domain

import "go.trai.ch/zerr"

var (
	// ErrNotFound is returned when a file or directory is missing on registration or lookup.
	ErrNotFound = zerr.New("not found")

	// ErrUnavailable is returned when a watch backend cannot initialize or no root could be watched.
	ErrUnavailable = zerr.New("watcher unavailable")

	// ErrAlreadyRunning is returned when starting a watcher that is already running.
	ErrAlreadyRunning = zerr.New("watcher already running")

	// ErrWatchLimit is returned when the kernel refuses to create more watches.
	ErrWatchLimit = zerr.New("watch limit reached")

	// ErrReleaseFailed is returned when stopping a watcher could not release every watch.
	ErrReleaseFailed = zerr.New("failed to release watch resources")

	// ErrCacheReadFailed is returned when a persisted cache or dependency file cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read build state")

	// ErrCacheWriteFailed is returned when a cache or dependency file cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write build state")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when the configuration fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrFrontmatterInvalid is returned when a page's frontmatter block cannot be parsed.
	ErrFrontmatterInvalid = zerr.New("invalid frontmatter")

	// ErrLayoutNotFound is returned when the layout referenced by a page does not exist.
	ErrLayoutNotFound = zerr.New("layout not found")

	// ErrPartialNotFound is returned when a referenced partial does not exist.
	ErrPartialNotFound = zerr.New("partial not found")

	// ErrPartialCycle is returned when partials include each other.
	ErrPartialCycle = zerr.New("partial include cycle")

	// ErrRenderFailed is returned when markdown rendering fails.
	ErrRenderFailed = zerr.New("failed to render page")

	// ErrOutputWriteFailed is returned when an output file cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output")

	// ErrBuildFailed is returned when one or more pages failed to build.
	ErrBuildFailed = zerr.New("build failed")

	// ErrServerFailed is returned when the development server cannot serve.
	ErrServerFailed = zerr.New("development server failed")

	// ErrProjectExists is returned by init when the target already holds a project.
	ErrProjectExists = zerr.New("project already exists")
)
