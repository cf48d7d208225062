package cas

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
)

var _ ports.DependencyTracker = (*Tracker)(nil)

// trackerRecord is the persisted form of one page's dependencies.
type trackerRecord struct {
	Path domain.PathKey   `json:"path"`
	Deps []domain.PathKey `json:"deps"`
}

// Tracker records file→dependency edges and maintains the reverse view.
type Tracker struct {
	mu      sync.RWMutex
	forward map[domain.PathKey][]domain.PathKey
	reverse map[domain.PathKey]map[domain.PathKey]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		forward: make(map[domain.PathKey][]domain.PathKey),
		reverse: make(map[domain.PathKey]map[domain.PathKey]struct{}),
	}
}

// Add records that file depends on dependency. Repeated pairs are ignored.
func (t *Tracker) Add(file, dependency string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addLocked(domain.NewPathKey(file), domain.NewPathKey(dependency))
}

func (t *Tracker) addLocked(file, dep domain.PathKey) {
	if slices.Contains(t.forward[file], dep) {
		return
	}
	t.forward[file] = append(t.forward[file], dep)

	dependents, ok := t.reverse[dep]
	if !ok {
		dependents = make(map[domain.PathKey]struct{})
		t.reverse[dep] = dependents
	}
	dependents[file] = struct{}{}
}

// Reverse returns the files that registered dependency, sorted.
func (t *Tracker) Reverse(dependency string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	dependents := t.reverse[domain.NewPathKey(dependency)]
	res := make([]string, 0, len(dependents))
	for _, file := range slices.SortedFunc(maps.Keys(dependents), domain.PathKey.Compare) {
		res = append(res, file.String())
	}
	return res
}

// Dependencies returns the dependencies of file in insertion order.
func (t *Tracker) Dependencies(file string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	deps := t.forward[domain.NewPathKey(file)]
	res := make([]string, len(deps))
	for i, dep := range deps {
		res[i] = dep.String()
	}
	return res
}

// Forget drops every edge whose source is file.
func (t *Tracker) Forget(file string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := domain.NewPathKey(file)
	for _, dep := range t.forward[key] {
		dependents := t.reverse[dep]
		delete(dependents, key)
		if len(dependents) == 0 {
			delete(t.reverse, dep)
		}
	}
	delete(t.forward, key)
}

// Len returns the number of files with recorded dependencies.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.forward)
}

// Reset drops every edge.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.forward)
	clear(t.reverse)
}

// Save writes one record per file, sorted by path, with dependencies in insertion order.
func (t *Tracker) Save(path string) error {
	t.mu.RLock()
	keys := slices.SortedFunc(maps.Keys(t.forward), domain.PathKey.Compare)
	records := make([]trackerRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, trackerRecord{Path: key, Deps: slices.Clone(t.forward[key])})
	}
	t.mu.RUnlock()

	return writeRecords(path, records)
}

// Load replaces the edges with those persisted at path, with the same tolerance as
// BuildCache.Load.
func (t *Tracker) Load(path string) error {
	loaded := NewTracker()
	_, err := readRecords(path, func(r trackerRecord) bool {
		if r.Path.IsZero() {
			return false
		}
		for _, dep := range r.Deps {
			if !dep.IsZero() {
				loaded.addLocked(r.Path, dep)
			}
		}
		return true
	})

	t.mu.Lock()
	t.forward = loaded.forward
	t.reverse = loaded.reverse
	t.mu.Unlock()

	return err
}
