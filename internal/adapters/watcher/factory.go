package watcher

import (
	"errors"
	"fmt"
	"runtime"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/zerr"
)

// SelectBackend resolves a configured backend name.
// "auto" picks inotify on linux and fsnotify elsewhere.
func SelectBackend(name string) (Backend, error) {
	switch name {
	case "", domain.BackendAuto:
		if runtime.GOOS == "linux" {
			return NewInotifyBackend(), nil
		}
		return NewFSNotifyBackend(), nil
	case domain.BackendFSNotify:
		return NewFSNotifyBackend(), nil
	case domain.BackendInotify:
		return NewInotifyBackend(), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown watch backend"), "backend", name)
	}
}

// Factory builds watchers for a loaded site.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a Factory that hands logger to every watcher.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// ForSite creates a watcher over the site's watch roots using the configured backend.
// Missing roots are skipped; the output and state directories are never watched.
func (f *Factory) ForSite(site *domain.Site) (*Watcher, error) {
	backend, err := SelectBackend(site.Backend)
	if err != nil {
		return nil, err
	}

	w := New(backend, f.logger, WithExclude(site.OutputDir, site.StateDir))
	for _, root := range site.WatchRoots() {
		if err := w.AddPath(root); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				f.logger.Debug(fmt.Sprintf("not watching missing directory %s", root))
				continue
			}
			return nil, err
		}
	}
	return w, nil
}
