package watcher

import (
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/zerr"
)

// memoryBuffer is the number of injected events a source holds before Inject blocks.
const memoryBuffer = 64

// MemoryBackend is an in-memory Backend. Tests inject notifications by path and
// inspect which directories are watched.
type MemoryBackend struct {
	mu      sync.Mutex
	nextID  WatchID
	sources []*memorySource
	// OpenErr, when set, is returned by the next calls to Open.
	OpenErr error
	// WatchErr, when set, is returned by Watch for the listed directories.
	WatchErr map[string]error
}

// NewMemoryBackend creates an empty fake backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{WatchErr: make(map[string]error)}
}

// Name implements Backend.
func (*MemoryBackend) Name() string {
	return "memory"
}

// Open implements Backend.
func (b *MemoryBackend) Open() (Source, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	src := &memorySource{
		backend: b,
		events:  make(chan RawEvent, memoryBuffer),
		ids:     make(map[WatchID]string),
		paths:   make(map[string]WatchID),
	}
	b.sources = append(b.sources, src)
	return src, nil
}

// Inject delivers op for path to the source watching its parent directory.
// It reports false when no live watch covers path.
func (b *MemoryBackend) Inject(path string, op Op, dir bool) bool {
	path = filepath.Clean(path)
	parent := filepath.Dir(path)

	b.mu.Lock()
	var (
		target *memorySource
		ev     RawEvent
	)
	for _, src := range b.sources {
		if id, ok := src.paths[parent]; ok && !src.closed {
			target, ev = src, RawEvent{ID: id, Name: filepath.Base(path), Op: op, Dir: dir}
			break
		}
	}
	b.mu.Unlock()

	if target == nil {
		return false
	}
	target.events <- ev
	return true
}

// Drop simulates the backend discarding the watch on dir, as the kernel does when a
// watched directory disappears. It reports false when dir is not watched.
func (b *MemoryBackend) Drop(dir string) bool {
	dir = filepath.Clean(dir)

	b.mu.Lock()
	var (
		target *memorySource
		id     WatchID
	)
	for _, src := range b.sources {
		if wid, ok := src.paths[dir]; ok && !src.closed {
			target, id = src, wid
			delete(src.paths, dir)
			delete(src.ids, wid)
			break
		}
	}
	b.mu.Unlock()

	if target == nil {
		return false
	}
	target.events <- RawEvent{ID: id, Op: OpGone}
	return true
}

// Watched returns every directory with a live watch, sorted.
func (b *MemoryBackend) Watched() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var dirs []string
	for _, src := range b.sources {
		if src.closed {
			continue
		}
		dirs = append(dirs, slices.Collect(maps.Keys(src.paths))...)
	}
	slices.Sort(dirs)
	return dirs
}

// Live returns the number of live watches across all open sources.
func (b *MemoryBackend) Live() int {
	return len(b.Watched())
}

// OpenSources returns the number of sources opened and not yet closed.
func (b *MemoryBackend) OpenSources() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, src := range b.sources {
		if !src.closed {
			n++
		}
	}
	return n
}

// memorySource state is guarded by the backend's mutex.
type memorySource struct {
	backend *MemoryBackend
	events  chan RawEvent
	ids     map[WatchID]string
	paths   map[string]WatchID
	closed  bool
}

func (s *memorySource) Watch(dir string) (WatchID, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if err, ok := b.WatchErr[dir]; ok {
		return 0, err
	}
	if s.closed {
		return 0, zerr.Wrap(domain.ErrUnavailable, errSourceClosed.Error())
	}
	if id, ok := s.paths[dir]; ok {
		return id, nil
	}
	b.nextID++
	s.ids[b.nextID] = dir
	s.paths[dir] = b.nextID
	return b.nextID, nil
}

func (s *memorySource) Unwatch(id WatchID) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if dir, ok := s.ids[id]; ok {
		delete(s.paths, dir)
		delete(s.ids, id)
	}
	return nil
}

func (s *memorySource) Read(done <-chan struct{}) ([]RawEvent, error) {
	var batch []RawEvent
	select {
	case <-done:
		return nil, nil
	case ev := <-s.events:
		batch = append(batch, ev)
	}
	for {
		select {
		case ev := <-s.events:
			batch = append(batch, ev)
		default:
			return batch, nil
		}
	}
}

func (s *memorySource) Close() error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	s.closed = true
	clear(s.ids)
	clear(s.paths)
	return nil
}
