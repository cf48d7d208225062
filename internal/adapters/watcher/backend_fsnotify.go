package watcher

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/zerr"
)

// FSNotifyBackend opens one fsnotify.Watcher per root.
type FSNotifyBackend struct{}

// NewFSNotifyBackend creates the portable backend.
func NewFSNotifyBackend() *FSNotifyBackend {
	return &FSNotifyBackend{}
}

// Name implements Backend.
func (*FSNotifyBackend) Name() string {
	return domain.BackendFSNotify
}

// Open implements Backend.
func (*FSNotifyBackend) Open() (Source, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		if isWatchLimit(err) {
			return nil, zerr.Wrap(domain.ErrWatchLimit, err.Error())
		}
		return nil, zerr.Wrap(domain.ErrUnavailable, err.Error())
	}
	return &fsnotifySource{
		w:     w,
		ids:   make(map[WatchID]string),
		paths: make(map[string]WatchID),
	}, nil
}

// fsnotifySource assigns its own ids since fsnotify addresses watches by path.
type fsnotifySource struct {
	w *fsnotify.Watcher

	mu     sync.Mutex
	nextID WatchID
	ids    map[WatchID]string
	paths  map[string]WatchID
}

func (s *fsnotifySource) Watch(dir string) (WatchID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.paths[dir]; ok {
		return id, nil
	}
	if err := s.w.Add(dir); err != nil {
		return 0, mapWatchErr(err, dir)
	}
	s.nextID++
	s.ids[s.nextID] = dir
	s.paths[dir] = s.nextID
	return s.nextID, nil
}

func (s *fsnotifySource) Unwatch(id WatchID) error {
	s.mu.Lock()
	dir, ok := s.ids[id]
	delete(s.ids, id)
	delete(s.paths, dir)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if err := s.w.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
		return zerr.With(zerr.Wrap(err, "failed to remove watch"), "path", dir)
	}
	return nil
}

func (s *fsnotifySource) Read(done <-chan struct{}) ([]RawEvent, error) {
	var batch []RawEvent
	select {
	case <-done:
		return nil, nil
	case ev, ok := <-s.w.Events:
		if !ok {
			return nil, errSourceClosed
		}
		batch = s.appendEvent(batch, ev)
	case err, ok := <-s.w.Errors:
		if !ok {
			return nil, errSourceClosed
		}
		return nil, s.mapErr(err)
	}

	// Drain whatever is already buffered so one wake-up dispatches a burst.
	for {
		select {
		case ev, ok := <-s.w.Events:
			if !ok {
				return batch, nil
			}
			batch = s.appendEvent(batch, ev)
		default:
			return batch, nil
		}
	}
}

func (s *fsnotifySource) Close() error {
	return s.w.Close()
}

func (s *fsnotifySource) mapErr(err error) error {
	if errors.Is(err, fsnotify.ErrEventOverflow) {
		return zerr.Wrap(err, "events were dropped by the kernel")
	}
	return zerr.Wrap(err, "watch backend error")
}

// appendEvent resolves ev against the watch of its parent directory, or of the
// entry itself when the parent is not watched (a removed root).
func (s *fsnotifySource) appendEvent(batch []RawEvent, ev fsnotify.Event) []RawEvent {
	op, ok := fsnotifyOp(ev.Op)
	if !ok {
		return batch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := filepath.Clean(ev.Name)
	if id, ok := s.paths[filepath.Dir(name)]; ok {
		return append(batch, RawEvent{ID: id, Name: filepath.Base(name), Op: op})
	}
	if id, ok := s.paths[name]; ok && op == OpDeleted {
		return append(batch, RawEvent{ID: id, Op: op})
	}
	return batch
}

func fsnotifyOp(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreated, true
	case op.Has(fsnotify.Write):
		return OpModified, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpDeleted, true
	default:
		return 0, false
	}
}
