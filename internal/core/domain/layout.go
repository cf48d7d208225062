package domain

import "path/filepath"

const (
	// StateDirName is the name of the directory holding persisted build state.
	StateDirName = ".xo"

	// CacheFileName is the name of the persisted build cache.
	CacheFileName = "cache.jsonl"

	// DepsFileName is the name of the persisted dependency graph.
	DepsFileName = "deps.jsonl"

	// ConfigFileName is the name of the site configuration file.
	ConfigFileName = "xo.yaml"

	// ReloadPayload is the message broadcast to live-reload clients after a rebuild.
	ReloadPayload = "reload"

	// ReloadEndpoint is the websocket path served by the development server.
	ReloadEndpoint = "/__ws"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStatePath returns the default directory for persisted build state.
func DefaultStatePath() string {
	return StateDirName
}

// DefaultCachePath returns the default path of the build cache.
// It joins .xo and cache.jsonl.
func DefaultCachePath() string {
	return filepath.Join(StateDirName, CacheFileName)
}

// DefaultDepsPath returns the default path of the dependency graph.
// It joins .xo and deps.jsonl.
func DefaultDepsPath() string {
	return filepath.Join(StateDirName, DepsFileName)
}
