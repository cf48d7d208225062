package watcher

import (
	"errors"
	"syscall"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/zerr"
)

// WatchID identifies one directory watch within a Source.
type WatchID int

// Op is the kind of raw notification reported by a Source.
type Op uint8

const (
	// OpCreated reports a new entry, including the destination of a move.
	OpCreated Op = iota + 1
	// OpModified reports a completed write to a file.
	OpModified
	// OpDeleted reports a removed entry, including the origin of a move.
	OpDeleted
	// OpGone reports that the backend dropped the watch itself.
	OpGone
)

// RawEvent is a notification as delivered by a backend, before path resolution.
type RawEvent struct {
	// ID is the watch of the directory the entry lives in.
	ID WatchID
	// Name is the entry name inside that directory. Empty when the event
	// concerns the watched directory itself.
	Name string
	Op   Op
	// Dir is set when the backend knows the entry is a directory.
	Dir bool
}

// Backend opens watch sources. A Watcher opens one Source per root.
type Backend interface {
	Name() string
	Open() (Source, error)
}

// Source is a single kernel or library watch handle shared by the directories of one root.
// Only the owning worker calls Read; Watch and Unwatch are called by that worker or
// while no worker is running.
type Source interface {
	// Watch starts observing dir (not recursively).
	Watch(dir string) (WatchID, error)
	// Unwatch releases a watch. Releasing a watch the backend already dropped is not an error.
	Unwatch(id WatchID) error
	// Read blocks until notifications arrive or done is closed. It returns
	// errSourceClosed once the source can deliver nothing more.
	Read(done <-chan struct{}) ([]RawEvent, error)
	// Close releases the source.
	Close() error
}

var errSourceClosed = zerr.New("watch source closed")

// isWatchLimit reports whether err is the kernel refusing more watches or descriptors.
func isWatchLimit(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EMFILE)
}

// mapWatchErr classifies a failure to create a watch on path.
func mapWatchErr(err error, path string) error {
	switch {
	case isWatchLimit(err):
		return zerr.With(zerr.Wrap(domain.ErrWatchLimit, err.Error()), "path", path)
	case errors.Is(err, syscall.ENOENT), errors.Is(err, syscall.ENOTDIR):
		return zerr.With(zerr.Wrap(domain.ErrNotFound, err.Error()), "path", path)
	default:
		return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", path)
	}
}
