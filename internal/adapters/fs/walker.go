// Package fs provides file system adapters for walking and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// alwaysSkipped are directories never descended into.
var alwaysSkipped = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// IsSkippedDir reports whether a directory named name is never descended into.
func IsSkippedDir(name string) bool {
	return alwaysSkipped[name]
}

// Walker enumerates directory trees through a FileSystem.
type Walker struct {
	fsys FileSystem
}

// NewWalker creates a Walker over the operating system's filesystem.
func NewWalker() *Walker {
	return &Walker{fsys: NewOSFS()}
}

// NewWalkerFS creates a Walker over fsys.
func NewWalkerFS(fsys FileSystem) *Walker {
	return &Walker{fsys: fsys}
}

// FileSystem returns the filesystem the walker reads.
func (w *Walker) FileSystem() FileSystem {
	return w.fsys
}

// Walk yields every entry beneath root, excluding root itself, depth first in
// lexical order, together with whether the entry is a directory.
func (w *Walker) Walk(root string) iter.Seq2[string, bool] {
	return func(yield func(string, bool) bool) {
		w.walk(root, func(path string, d fs.DirEntry) bool {
			return yield(path, d.IsDir())
		})
	}
}

// WalkFiles yields every regular file beneath root in lexical order.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for path, dir := range w.Walk(root) {
			if !dir && !yield(path) {
				return
			}
		}
	}
}

// WalkDirs yields root and every directory beneath it in lexical order.
// Unreadable directories are skipped rather than aborting the walk.
func (w *Walker) WalkDirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		info, err := w.fsys.Stat(root)
		if err != nil || !info.IsDir() {
			return
		}
		if !yield(root) {
			return
		}
		for path, dir := range w.Walk(root) {
			if dir && !yield(path) {
				return
			}
		}
	}
}

// walk visits the entries below dir depth first. It returns false once visit asks to stop.
func (w *Walker) walk(dir string, visit func(string, fs.DirEntry) bool) bool {
	entries, err := w.fsys.ReadDir(dir)
	if err != nil {
		return true
	}
	for _, entry := range entries {
		if entry.IsDir() && alwaysSkipped[entry.Name()] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !visit(path, entry) {
			return false
		}
		if entry.IsDir() && !w.walk(path, visit) {
			return false
		}
	}
	return true
}
