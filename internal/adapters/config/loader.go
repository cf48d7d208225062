// Package config provides the site configuration loader for xo.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

const maxPort = 65535

// Loader implements ports.ConfigLoader using an xo.yaml file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load discovers xo.yaml from cwd upwards and returns the resolved site.
// Without a configuration file the conventional layout rooted at cwd is used.
func (l *Loader) Load(cwd string) (*domain.Site, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}

	configPath, found := l.findConfiguration(cwd)
	if !found {
		l.Logger.Debug(fmt.Sprintf("no %s found, using defaults in %s", domain.ConfigFileName, cwd))
		site := domain.DefaultSite(cwd)
		return &site, nil
	}

	var file Sitefile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	site, err := resolveSite(filepath.Dir(configPath), &file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	l.Logger.Debug(fmt.Sprintf("loaded %s", configPath))
	return site, nil
}

// DiscoverRoot returns the directory holding xo.yaml, or cwd when there is none.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}
	if configPath, found := l.findConfiguration(cwd); found {
		return filepath.Dir(configPath), nil
	}
	return cwd, nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// readAndUnmarshalYAML reads a YAML file and decodes it strictly into target.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Sitefile) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(domain.ErrConfigParseFailed, err.Error())
	}
	return nil
}

// resolveSite overlays file onto the defaults rooted at dir and validates the result.
func resolveSite(dir string, file *Sitefile) (*domain.Site, error) {
	site := domain.DefaultSite(dir)

	site.ContentDir = resolvePath(dir, file.Content, site.ContentDir)
	site.LayoutsDir = resolvePath(dir, file.Layouts, site.LayoutsDir)
	if file.Partials != "" {
		site.PartialsDir = resolvePath(dir, file.Partials, site.PartialsDir)
	} else if file.Content != "" {
		site.PartialsDir = filepath.Join(site.ContentDir, "_partials")
	}
	site.OutputDir = resolvePath(dir, file.Output, site.OutputDir)
	if file.Public != nil {
		site.PublicDir = ""
		if *file.Public != "" {
			site.PublicDir = resolvePath(dir, *file.Public, "")
		}
	}

	if file.Port != 0 {
		site.Port = file.Port
	}
	if file.BaseURL != "" {
		site.BaseURL = file.BaseURL
	}
	if file.Layout != "" {
		site.DefaultLayout = file.Layout
	}
	if len(file.Exts.Content) > 0 {
		site.ContentExts = normalizeExts(file.Exts.Content)
	}
	if len(file.Exts.Assets) > 0 {
		site.AssetExts = normalizeExts(file.Exts.Assets)
	}
	if exts := normalizeExts([]string{file.Exts.Output}); len(exts) == 1 {
		site.OutputExt = exts[0]
	}
	if file.Watch.Backend != "" {
		site.Backend = strings.ToLower(file.Watch.Backend)
	}

	if err := Validate(&site); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks the invariants every site must satisfy.
func Validate(site *domain.Site) error {
	if site.Port < 1 || site.Port > maxPort {
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "port out of range"), "port", site.Port)
	}
	if site.ContentDir == site.OutputDir {
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "content and output must differ"),
			"dir", site.ContentDir)
	}
	if within(site.ContentDir, site.OutputDir) {
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "output must not be inside content"),
			"output", site.OutputDir)
	}
	switch site.Backend {
	case domain.BackendAuto, domain.BackendFSNotify, domain.BackendInotify:
	default:
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown watch backend"), "backend", site.Backend)
	}
	if len(site.ContentExts) == 0 {
		return zerr.Wrap(domain.ErrConfigInvalid, "no content extensions")
	}
	if site.DefaultLayout == "" || strings.ContainsAny(site.DefaultLayout, `/\`) {
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "invalid layout name"), "layout", site.DefaultLayout)
	}
	return nil
}

func resolvePath(baseDir, configured, fallback string) string {
	if configured == "" {
		return fallback
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(baseDir, configured))
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
