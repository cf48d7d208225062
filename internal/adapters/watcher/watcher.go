// Package watcher implements recursive directory watching over pluggable backends.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/xo/internal/adapters/fs"
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// Option configures a Watcher.
type Option func(*Watcher)

// WithFileSystem makes the watcher enumerate directories through fsys.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(w *Watcher) {
		w.walker = fs.NewWalkerFS(fsys)
	}
}

// WithExclude keeps the listed directories and everything beneath them unwatched.
func WithExclude(dirs ...string) Option {
	return func(w *Watcher) {
		for _, dir := range dirs {
			if dir != "" {
				w.exclude = append(w.exclude, filepath.Clean(dir))
			}
		}
	}
}

// Watcher recursively observes a set of roots, one backend source and worker per root.
type Watcher struct {
	backend Backend
	logger  ports.Logger
	walker  *fs.Walker
	exclude []string

	// mu guards the fields below and is held for the whole of Start and Stop.
	mu       sync.Mutex
	roots    []string
	running  bool
	sessions []*session
	halt     func()
	wg       sync.WaitGroup

	// deliver serializes callbacks across workers.
	deliver sync.Mutex
}

// session is the per-root state. Its maps are touched only by the root's worker,
// or by Start and Stop while that worker is not running.
type session struct {
	root string
	src  Source
	ids  map[WatchID]string
	dirs map[string]WatchID
}

// New creates a watcher that opens its sources from backend.
func New(backend Backend, logger ports.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		backend: backend,
		logger:  logger,
		walker:  fs.NewWalker(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddPath registers root for recursive observation. Roots added while running are
// picked up by the next Start.
func (w *Watcher) AddPath(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrNotFound, err.Error()), "path", root)
	}
	info, err := w.walker.FileSystem().Stat(abs)
	if err != nil || !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrNotFound, "watch root is not a directory"), "path", abs)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !slices.Contains(w.roots, abs) {
		w.roots = append(w.roots, abs)
	}
	return nil
}

// Start watches every registered root and begins delivering events to callback.
// Workers stop when ctx is done, but watches are only released by Stop.
func (w *Watcher) Start(ctx context.Context, callback ports.WatchCallback) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return domain.ErrAlreadyRunning
	}
	if len(w.roots) == 0 {
		return nil
	}

	sessions := make([]*session, 0, len(w.roots))
	for _, root := range w.roots {
		s, err := w.open(root)
		if err != nil {
			w.logger.Warn(fmt.Sprintf("skipping watch root %s: %v", root, err))
			continue
		}
		sessions = append(sessions, s)
	}
	if len(sessions) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrUnavailable, "no watch root could be registered"),
			"backend", w.backend.Name())
	}

	done := make(chan struct{})
	halt := sync.OnceFunc(func() { close(done) })
	w.halt = halt
	w.sessions = sessions
	w.running = true

	for _, s := range sessions {
		w.wg.Add(1)
		go w.run(s, done, callback)
	}
	go func() {
		select {
		case <-ctx.Done():
			halt()
		case <-done:
		}
	}()

	w.logger.Debug(fmt.Sprintf("watching %d root(s) with %s", len(sessions), w.backend.Name()))
	return nil
}

// Stop halts the workers, waits for them to exit, and releases every watch and source.
// It must not be called from inside the callback.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.halt()
	w.wg.Wait()

	var errs []error
	for _, s := range w.sessions {
		for id := range s.ids {
			if err := s.src.Unwatch(id); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.src.Close(); err != nil {
			errs = append(errs, zerr.With(zerr.Wrap(err, "failed to close watch source"), "root", s.root))
		}
		clear(s.ids)
		clear(s.dirs)
	}
	w.sessions = nil
	w.halt = nil
	w.running = false

	if len(errs) > 0 {
		return zerr.Wrap(domain.ErrReleaseFailed, errors.Join(errs...).Error())
	}
	return nil
}

// open creates the source for root and watches the tree currently beneath it.
func (w *Watcher) open(root string) (*session, error) {
	src, err := w.backend.Open()
	if err != nil {
		return nil, err
	}
	s := &session{
		root: root,
		src:  src,
		ids:  make(map[WatchID]string),
		dirs: make(map[string]WatchID),
	}
	if err := w.watch(s, root); err != nil {
		_ = src.Close()
		return nil, err
	}
	w.watchTree(s, root)
	return s, nil
}

// watch adds a single directory watch and records it.
func (w *Watcher) watch(s *session, dir string) error {
	if _, ok := s.dirs[dir]; ok {
		return nil
	}
	id, err := s.src.Watch(dir)
	if err != nil {
		return err
	}
	s.bind(id, dir)
	return nil
}

// watchTree watches dir and every directory beneath it. Failures are logged per directory.
func (w *Watcher) watchTree(s *session, dir string) {
	if fs.IsSkippedDir(filepath.Base(dir)) || w.excluded(dir) {
		return
	}
	for sub := range w.walker.WalkDirs(dir) {
		if w.excluded(sub) {
			continue
		}
		if err := w.watch(s, sub); err != nil {
			w.logger.Warn(fmt.Sprintf("failed to watch %s: %v", sub, err))
		}
	}
}

// unwatchTree releases the watches of dir and its descendants.
func (w *Watcher) unwatchTree(s *session, dir string) {
	for path, id := range s.dirs {
		if path != dir && !strings.HasPrefix(path, dir+string(filepath.Separator)) {
			continue
		}
		if err := s.src.Unwatch(id); err != nil {
			w.logger.Debug(fmt.Sprintf("failed to release watch on %s: %v", path, err))
		}
		s.unbind(id)
	}
}

func (w *Watcher) excluded(path string) bool {
	for _, dir := range w.exclude {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) run(s *session, done <-chan struct{}, callback ports.WatchCallback) {
	defer w.wg.Done()

	for {
		events, err := s.src.Read(done)
		select {
		case <-done:
			return
		default:
		}
		if errors.Is(err, errSourceClosed) {
			w.logger.Warn(fmt.Sprintf("watch source for %s closed unexpectedly", s.root))
			return
		}
		if err != nil {
			w.logger.Warn(fmt.Sprintf("watching %s: %v", s.root, err))
		}
		for _, ev := range events {
			w.handle(s, ev, done, callback)
		}
	}
}

// handle resolves a raw event, maintains the watch set, and forwards the result.
func (w *Watcher) handle(s *session, ev RawEvent, done <-chan struct{}, callback ports.WatchCallback) {
	if ev.Op == OpGone {
		s.unbind(ev.ID)
		return
	}
	dir, ok := s.ids[ev.ID]
	if !ok {
		return
	}
	path := dir
	if ev.Name != "" {
		path = filepath.Join(dir, ev.Name)
	}
	if w.excluded(path) {
		return
	}

	var kind domain.EventKind
	switch ev.Op {
	case OpCreated:
		if ev.Dir || w.isDir(path) {
			w.watchTree(s, path)
			w.emit(domain.FileEvent{Kind: domain.EventCreated, Path: path}, done, callback)
			w.replay(path, done, callback)
			return
		}
		kind = domain.EventCreated
	case OpModified:
		kind = domain.EventModified
	case OpDeleted:
		kind = domain.EventDeleted
		if _, watched := s.dirs[path]; watched {
			w.unwatchTree(s, path)
		}
	default:
		return
	}

	w.emit(domain.FileEvent{Kind: kind, Path: path}, done, callback)
}

// replay emits Created for everything already inside a directory that appeared at
// runtime. Entries written before its watch existed produce no notification of their own.
func (w *Watcher) replay(dir string, done <-chan struct{}, callback ports.WatchCallback) {
	if fs.IsSkippedDir(filepath.Base(dir)) {
		return
	}
	for path := range w.walker.Walk(dir) {
		if w.excluded(path) {
			continue
		}
		w.emit(domain.FileEvent{Kind: domain.EventCreated, Path: path}, done, callback)
	}
}

func (w *Watcher) isDir(path string) bool {
	info, err := w.walker.FileSystem().Stat(path)
	return err == nil && info.IsDir()
}

// emit invokes callback unless the watcher has been halted. A panicking callback is
// logged and the worker keeps running.
func (w *Watcher) emit(event domain.FileEvent, done <-chan struct{}, callback ports.WatchCallback) {
	w.deliver.Lock()
	defer w.deliver.Unlock()

	select {
	case <-done:
		return
	default:
	}

	defer zerr.Defer(func(err error) {
		w.logger.Error(zerr.With(zerr.Wrap(err, "watch callback panicked"), "path", event.Path))
	})
	callback(event)
}

// bind records id↔dir, dropping any pair that would break the one-to-one mapping.
func (s *session) bind(id WatchID, dir string) {
	if old, ok := s.ids[id]; ok {
		delete(s.dirs, old)
	}
	if old, ok := s.dirs[dir]; ok {
		delete(s.ids, old)
	}
	s.ids[id] = dir
	s.dirs[dir] = id
}

func (s *session) unbind(id WatchID) {
	if dir, ok := s.ids[id]; ok {
		delete(s.dirs, dir)
		delete(s.ids, id)
	}
}

