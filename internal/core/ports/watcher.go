package ports

import (
	"context"

	"go.trai.ch/xo/internal/core/domain"
)

// WatchCallback receives filesystem events. It is invoked on a watcher worker and
// must not call Stop on the watcher that invoked it.
type WatchCallback func(domain.FileEvent)

// Watcher recursively observes directory trees.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// AddPath registers root for recursive observation.
	// It returns domain.ErrNotFound if root is missing or not a directory.
	AddPath(root string) error
	// Start establishes the watches and begins delivering events to callback.
	// It returns domain.ErrAlreadyRunning if the watcher is running and
	// domain.ErrUnavailable if no registered root could be watched.
	Start(ctx context.Context, callback WatchCallback) error
	// Stop halts delivery, releases every watch and waits for the workers to exit.
	Stop() error
}
