// Package pipeline renders markdown pages through layouts into the output tree.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.trai.ch/xo/internal/adapters/fs"
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Builder = (*Pipeline)(nil)

// Pipeline builds the pages of one site and records what each page was built from.
type Pipeline struct {
	site    *domain.Site
	cache   ports.BuildCache
	tracker ports.DependencyTracker
	logger  ports.Logger
	walker  *fs.Walker
	md      goldmark.Markdown
	workers int
}

// New creates a Pipeline for site.
func New(
	site *domain.Site,
	cache ports.BuildCache,
	tracker ports.DependencyTracker,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		site:    site,
		cache:   cache,
		tracker: tracker,
		logger:  logger,
		walker:  fs.NewWalker(),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		workers: runtime.NumCPU(),
	}
}

// Pages returns every page beneath root in lexical order.
func (p *Pipeline) Pages(root string) []string {
	var pages []string
	for path := range p.walker.WalkFiles(root) {
		if p.site.IsPage(path) {
			pages = append(pages, path)
		}
	}
	return pages
}

// BuildFile renders a single page and writes its output. On failure the previous
// output is left untouched.
func (p *Pipeline) BuildFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, ok := p.site.OutputPath(path)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrRenderFailed, "page is outside the content directory"), "path", path)
	}

	//nolint:gosec // Pages are enumerated from the configured content directory
	source, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return zerr.With(zerr.Wrap(domain.ErrNotFound, domain.ErrFileOpenFailed.Error()), "path", path)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}

	meta, body, err := splitFrontmatter(source)
	if err != nil {
		return zerr.With(err, "path", path)
	}

	partials := &partialSet{blobs: make(map[string][]byte), logger: p.logger}
	expanded, err := p.expandPartials(string(body), nil, partials)
	if err != nil {
		return zerr.With(err, "path", path)
	}

	data := p.templateData(meta)
	var rendered bytes.Buffer
	if err := p.md.Convert([]byte(substitute(expanded, data)), &rendered); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrRenderFailed, err.Error()), "path", path)
	}

	layoutName := p.site.DefaultLayout
	if name, ok := meta["layout"].(string); ok && name != "" {
		layoutName = name
	}
	layoutPath := p.site.LayoutPath(layoutName)
	//nolint:gosec // Layout names resolve inside the configured layouts directory
	layout, err := os.ReadFile(layoutPath)
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrLayoutNotFound, layoutName), "path", path), "layout", layoutPath)
	}
	layoutExpanded, err := p.expandPartials(string(layout), nil, partials)
	if err != nil {
		return zerr.With(err, "layout", layoutPath)
	}

	data[contentKey] = rendered.String()
	page := substitute(layoutExpanded, data)

	if err := fs.WriteFileAtomic(out, []byte(page), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrOutputWriteFailed, err.Error()), "path", out)
	}

	p.tracker.Forget(path)
	p.tracker.Add(path, layoutPath)
	for _, partial := range partials.paths {
		p.tracker.Add(path, partial)
	}

	p.cache.Add(path, fs.DigestBytes(source))
	p.cache.Add(layoutPath, fs.DigestBytes(layout))
	for partial, blob := range partials.blobs {
		p.cache.Add(partial, fs.DigestBytes(blob))
	}

	p.logger.Debug(fmt.Sprintf("built %s -> %s", path, out))
	return nil
}

// BuildDirectory builds every page beneath root. A failing page does not stop the
// others; the returned error joins every failure.
func (p *Pipeline) BuildDirectory(ctx context.Context, root string) (domain.BuildReport, error) {
	return p.BuildPages(ctx, p.Pages(root))
}

// BuildPages builds the given pages concurrently.
func (p *Pipeline) BuildPages(ctx context.Context, pages []string) (domain.BuildReport, error) {
	var (
		mu     sync.Mutex
		report domain.BuildReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.workers, 1))
	for _, page := range pages {
		g.Go(func() error {
			err := p.BuildFile(gctx, page)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, domain.BuildFailure{Path: page, Err: err})
				return nil
			}
			report.Built = append(report.Built, page)
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(report.Built)
	slices.SortFunc(report.Failed, func(a, b domain.BuildFailure) int {
		return strings.Compare(a.Path, b.Path)
	})

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if !report.OK() {
		errs := make([]error, len(report.Failed))
		for i, failure := range report.Failed {
			errs[i] = failure.Err
		}
		return report, zerr.With(zerr.Wrap(domain.ErrBuildFailed, errors.Join(errs...).Error()),
			"failed", len(report.Failed))
	}
	return report, nil
}

// CopyPublic mirrors the public directory into <output>/public, copying changed files
// and removing files that no longer exist in the source.
func (p *Pipeline) CopyPublic(ctx context.Context) error {
	src := p.site.PublicDir
	if src == "" {
		return nil
	}
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return nil
	}
	dst := filepath.Join(p.site.OutputDir, filepath.Base(src))

	var errs []error
	keep := make(map[string]struct{})
	for path := range p.walker.WalkFiles(src) {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			continue
		}
		target := filepath.Join(dst, rel)
		keep[target] = struct{}{}
		if err := copyIfChanged(path, target); err != nil {
			errs = append(errs, err)
		}
	}

	for path := range p.walker.WalkFiles(dst) {
		if _, ok := keep[path]; ok {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			errs = append(errs, zerr.With(zerr.Wrap(err, "failed to remove stale file"), "path", path))
		}
	}

	if len(errs) > 0 {
		return zerr.Wrap(domain.ErrOutputWriteFailed, errors.Join(errs...).Error())
	}
	return nil
}

func copyIfChanged(src, dst string) error {
	//nolint:gosec // Source files come from the configured public directory
	data, err := os.ReadFile(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", src)
	}
	//nolint:gosec // Destination lives in the configured output directory
	if existing, err := os.ReadFile(dst); err == nil && fs.DigestBytes(existing) == fs.DigestBytes(data) {
		return nil
	}
	return fs.WriteFileAtomic(dst, data, domain.FilePerm)
}

// templateData merges page frontmatter with site-wide values.
func (p *Pipeline) templateData(meta map[string]any) map[string]any {
	data := make(map[string]any, len(meta)+1)
	data["baseUrl"] = p.site.BaseURL
	for k, v := range meta {
		data[k] = v
	}
	return data
}
