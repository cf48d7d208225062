//go:build !linux

package watcher

import (
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/zerr"
)

// InotifyBackend is only available on linux.
type InotifyBackend struct{}

// NewInotifyBackend creates a backend whose Open always fails.
func NewInotifyBackend() *InotifyBackend {
	return &InotifyBackend{}
}

// Name implements Backend.
func (*InotifyBackend) Name() string {
	return domain.BackendInotify
}

// Open implements Backend.
func (*InotifyBackend) Open() (Source, error) {
	return nil, zerr.Wrap(domain.ErrUnavailable, "inotify is only available on linux")
}
