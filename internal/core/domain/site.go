package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// Site describes where a site's sources live and how its files are classified.
// All directory fields are absolute once the configuration has been loaded.
type Site struct {
	Root          string
	ContentDir    string
	LayoutsDir    string
	PartialsDir   string
	OutputDir     string
	PublicDir     string
	StateDir      string
	Port          int
	ContentExts   []string
	OutputExt     string
	AssetExts     []string
	DefaultLayout string
	Backend       string
	// BaseURL is exposed to templates as {{ baseUrl }}.
	BaseURL string
}

// Watch backend names.
const (
	BackendAuto     = "auto"
	BackendFSNotify = "fsnotify"
	BackendInotify  = "inotify"
)

// DefaultPort is the development server port used when none is configured.
const DefaultPort = 3000

// DefaultSite returns the conventional layout rooted at root.
func DefaultSite(root string) Site {
	return Site{
		Root:          root,
		ContentDir:    filepath.Join(root, "content"),
		LayoutsDir:    filepath.Join(root, "layouts"),
		PartialsDir:   filepath.Join(root, "content", "_partials"),
		OutputDir:     filepath.Join(root, "dist"),
		PublicDir:     filepath.Join(root, "public"),
		StateDir:      filepath.Join(root, StateDirName),
		Port:          DefaultPort,
		ContentExts:   []string{".md", ".markdown"},
		OutputExt:     ".html",
		AssetExts:     []string{".css", ".js", ".html"},
		DefaultLayout: "default",
		Backend:       BackendAuto,
		BaseURL:       "/",
	}
}

// CachePath returns the location of the persisted build cache.
func (s Site) CachePath() string {
	return filepath.Join(s.StateDir, CacheFileName)
}

// DepsPath returns the location of the persisted dependency graph.
func (s Site) DepsPath() string {
	return filepath.Join(s.StateDir, DepsFileName)
}

// LayoutPath returns the template file for the named layout.
func (s Site) LayoutPath(name string) string {
	return filepath.Join(s.LayoutsDir, name+".html")
}

// PartialPath returns the source file for the named partial.
func (s Site) PartialPath(name string) string {
	if filepath.Ext(name) == "" {
		name += ".md"
	}
	return filepath.Join(s.PartialsDir, name)
}

// IsPage reports whether path is a content source that produces its own output.
// Files and directories whose names start with "_" are not pages.
func (s Site) IsPage(path string) bool {
	if !hasExt(path, s.ContentExts) {
		return false
	}
	rel, ok := relWithin(s.ContentDir, path)
	if !ok || rel == "." {
		return false
	}
	for segment := range strings.SplitSeq(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(segment, "_") {
			return false
		}
	}
	return true
}

// IsTemplate reports whether path is shared by many pages: a layout or a partial.
func (s Site) IsTemplate(path string) bool {
	if _, ok := relWithin(s.LayoutsDir, path); ok {
		return true
	}
	_, ok := relWithin(s.PartialsDir, path)
	return ok
}

// IsAsset reports whether path is a static asset that only requires a browser reload.
func (s Site) IsAsset(path string) bool {
	if !hasExt(path, s.AssetExts) {
		return false
	}
	_, inLayouts := relWithin(s.LayoutsDir, path)
	return !inLayouts
}

// OutputPath maps a page to its output file by swapping the content root for the
// output root and the source extension for the output extension.
func (s Site) OutputPath(page string) (string, bool) {
	rel, ok := relWithin(s.ContentDir, page)
	if !ok || rel == "." {
		return "", false
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + s.OutputExt
	return filepath.Join(s.OutputDir, rel), true
}

// WatchRoots returns the directories the development server observes.
// The partials directory is only listed when it lives outside the content root.
func (s Site) WatchRoots() []string {
	roots := []string{s.ContentDir, s.LayoutsDir}
	if _, ok := relWithin(s.ContentDir, s.PartialsDir); !ok {
		roots = append(roots, s.PartialsDir)
	}
	if s.PublicDir != "" {
		roots = append(roots, s.PublicDir)
	}
	return roots
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return slices.Contains(exts, ext)
}

// relWithin returns path relative to dir when path is dir or lies beneath it.
func relWithin(dir, path string) (string, bool) {
	if dir == "" {
		return "", false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

// BuildReport summarizes a directory build.
type BuildReport struct {
	Built   []string
	Skipped []string
	Failed  []BuildFailure
}

// BuildFailure records a page that could not be built.
type BuildFailure struct {
	Path string
	Err  error
}

// OK reports whether every page built.
func (r BuildReport) OK() bool {
	return len(r.Failed) == 0
}
