package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xo/internal/adapters/cas"
	"go.trai.ch/xo/internal/adapters/fs"
	"go.trai.ch/xo/internal/adapters/pipeline"
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const defaultLayout = "<html><head><title>{{ title }}</title></head><body>{{> header}}{{ content }}</body></html>\n"

type site struct {
	*domain.Site
	cache   *cas.BuildCache
	tracker *cas.Tracker
	logger  *mocks.MockLogger
	p       *pipeline.Pipeline
}

func newSite(t *testing.T) *site {
	t.Helper()
	cfg := domain.DefaultSite(t.TempDir())
	s := &site{
		Site:    &cfg,
		cache:   cas.NewBuildCache(fs.NewHasher()),
		tracker: cas.NewTracker(),
		logger:  mocks.NewMockLogger(gomock.NewController(t)),
	}
	s.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	s.p = pipeline.NewFactory(s.cache, s.tracker, s.logger).ForSite(s.Site)

	s.write(t, "layouts/default.html", defaultLayout)
	s.write(t, "content/_partials/header.md", "<nav>site</nav>")
	return s
}

func (s *site) path(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

func (s *site) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := s.path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *site) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(s.path(rel))
	require.NoError(t, err)
	return string(data)
}

func TestBuildFile_RendersPage(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	page := s.write(t, "content/post.md", "---\ntitle: Hello & Welcome\n---\n# Hello\n\nSome *text* at {{ baseUrl }}.\n")

	require.NoError(t, s.p.BuildFile(context.Background(), page))

	assert.Equal(t,
		"<html><head><title>Hello &amp; Welcome</title></head><body><nav>site</nav>"+
			"<h1 id=\"hello\">Hello</h1>\n<p>Some <em>text</em> at /.</p>\n</body></html>\n",
		s.read(t, "dist/post.html"),
	)

	layout := s.path("layouts/default.html")
	header := s.path("content/_partials/header.md")
	assert.Equal(t, []string{layout, header}, s.tracker.Dependencies(page))
	assert.Equal(t, []string{page}, s.tracker.Reverse(layout))

	assert.False(t, s.cache.ShouldRebuild(page))
	assert.False(t, s.cache.ShouldRebuild(layout))
	assert.False(t, s.cache.ShouldRebuild(header))
}

func TestBuildFile_NestedPageAndPartials(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	s.write(t, "content/_partials/footer.md", "footer {{> sig}}")
	s.write(t, "content/_partials/sig.md", "-- xo")
	page := s.write(t, "content/blog/2024/entry.markdown", "Body\n\n{{> footer}}\n")

	require.NoError(t, s.p.BuildFile(context.Background(), page))

	out := s.read(t, "dist/blog/2024/entry.html")
	assert.Contains(t, out, "<p>footer -- xo</p>")
	assert.ElementsMatch(t, []string{
		s.path("layouts/default.html"),
		s.path("content/_partials/footer.md"),
		s.path("content/_partials/sig.md"),
		s.path("content/_partials/header.md"),
	}, s.tracker.Dependencies(page))
}

func TestBuildFile_CustomLayout(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	s.write(t, "layouts/post.html", "<article>{{ content }}</article>")
	page := s.write(t, "content/post.md", "---\nlayout: post\n---\ntext\n")

	require.NoError(t, s.p.BuildFile(context.Background(), page))
	assert.Equal(t, "<article><p>text</p>\n</article>", s.read(t, "dist/post.html"))

	// Switching layouts drops the stale edge.
	s.write(t, "content/post.md", "text\n")
	require.NoError(t, s.p.BuildFile(context.Background(), page))
	assert.Empty(t, s.tracker.Reverse(s.path("layouts/post.html")))
	assert.Equal(t, []string{page}, s.tracker.Reverse(s.path("layouts/default.html")))
}

func TestBuildFile_MissingPartial(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	s.logger.EXPECT().Warn(gomock.Any()).Times(1)
	page := s.write(t, "content/post.md", "before {{> nope}} after\n")

	require.NoError(t, s.p.BuildFile(context.Background(), page))
	assert.Contains(t, s.read(t, "dist/post.html"), "<!-- Missing partial: nope -->")
	assert.Contains(t, s.tracker.Dependencies(page), s.path("content/_partials/nope.md"))
}

func TestBuildFile_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T, s *site) string
		wantErr error
	}{
		{
			name: "missing layout",
			setup: func(t *testing.T, s *site) string {
				return s.write(t, "content/post.md", "---\nlayout: nowhere\n---\nbody")
			},
			wantErr: domain.ErrLayoutNotFound,
		},
		{
			name: "partial cycle",
			setup: func(t *testing.T, s *site) string {
				s.write(t, "content/_partials/a.md", "{{> b}}")
				s.write(t, "content/_partials/b.md", "{{> a}}")
				return s.write(t, "content/post.md", "{{> a}}")
			},
			wantErr: domain.ErrPartialCycle,
		},
		{
			name: "invalid frontmatter",
			setup: func(t *testing.T, s *site) string {
				return s.write(t, "content/post.md", "---\ntitle: [\n---\nbody")
			},
			wantErr: domain.ErrFrontmatterInvalid,
		},
		{
			name: "missing page",
			setup: func(_ *testing.T, s *site) string {
				return s.path("content/post.md")
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newSite(t)
			s.write(t, "dist/post.html", "previous")
			page := tt.setup(t, s)

			err := s.p.BuildFile(context.Background(), page)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "previous", s.read(t, "dist/post.html"))
			assert.True(t, s.cache.ShouldRebuild(page))
		})
	}
}

func TestBuildFile_CanceledContext(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	page := s.write(t, "content/post.md", "body")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.p.BuildFile(ctx, page), context.Canceled)
	assert.NoFileExists(t, s.path("dist/post.html"))
}

func TestBuildDirectory(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	good := []string{
		s.write(t, "content/index.md", "# Index"),
		s.write(t, "content/blog/a.md", "# A"),
	}
	bad := s.write(t, "content/blog/b.md", "---\nlayout: missing\n---\n")
	s.write(t, "content/_drafts/wip.md", "# WIP")
	s.write(t, "content/image.png", "png")

	report, err := s.p.BuildDirectory(context.Background(), s.ContentDir)
	require.ErrorIs(t, err, domain.ErrBuildFailed)

	assert.Equal(t, []string{good[1], good[0]}, report.Built)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, bad, report.Failed[0].Path)
	require.ErrorIs(t, report.Failed[0].Err, domain.ErrLayoutNotFound)
	assert.False(t, report.OK())

	assert.FileExists(t, s.path("dist/index.html"))
	assert.FileExists(t, s.path("dist/blog/a.html"))
	assert.NoFileExists(t, s.path("dist/_drafts/wip.html"))
}

func TestBuildDirectory_AllPagesShareLayout(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	for i := range 50 {
		s.write(t, filepath.Join("content", "posts", string(rune('a'+i%26))+string(rune('a'+i/26))+".md"), "# post")
	}

	report, err := s.p.BuildDirectory(context.Background(), s.ContentDir)
	require.NoError(t, err)
	assert.Len(t, report.Built, 50)
	assert.Len(t, s.tracker.Reverse(s.path("layouts/default.html")), 50)
}

func TestCopyPublic(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	s.write(t, "public/style.css", "body{}")
	s.write(t, "public/js/app.js", "console.log(1)")
	s.write(t, "dist/public/stale.css", "old")

	require.NoError(t, s.p.CopyPublic(context.Background()))
	assert.Equal(t, "body{}", s.read(t, "dist/public/style.css"))
	assert.Equal(t, "console.log(1)", s.read(t, "dist/public/js/app.js"))
	assert.NoFileExists(t, s.path("dist/public/stale.css"))

	s.write(t, "public/style.css", "body{color:red}")
	require.NoError(t, s.p.CopyPublic(context.Background()))
	assert.Equal(t, "body{color:red}", s.read(t, "dist/public/style.css"))
}

func TestCopyPublic_MissingDirectory(t *testing.T) {
	t.Parallel()
	s := newSite(t)
	require.NoError(t, s.p.CopyPublic(context.Background()))
	assert.NoDirExists(t, s.path("dist/public"))
}
