package dispatcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports/mocks"
	"go.trai.ch/xo/internal/engine/dispatcher"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	site     *domain.Site
	builder  *mocks.MockBuilder
	cache    *mocks.MockBuildCache
	tracker  *mocks.MockDependencyTracker
	notifier *mocks.MockNotifier
	logger   *mocks.MockLogger
	d        *dispatcher.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	site := domain.DefaultSite(t.TempDir())
	f := &fixture{
		site:     &site,
		builder:  mocks.NewMockBuilder(ctrl),
		cache:    mocks.NewMockBuildCache(ctrl),
		tracker:  mocks.NewMockDependencyTracker(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.d = dispatcher.New(f.site, f.builder, f.cache, f.tracker, f.notifier, f.logger)
	return f
}

func (f *fixture) content(rel string) string {
	return filepath.Join(f.site.ContentDir, filepath.FromSlash(rel))
}

func TestDispatcher_PageModified(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	page := f.content("post.md")

	gomock.InOrder(
		f.cache.EXPECT().ShouldRebuild(page).Return(true),
		f.builder.EXPECT().BuildFile(gomock.Any(), page).Return(nil),
		f.notifier.EXPECT().Broadcast(domain.ReloadPayload).Times(1),
	)

	action := f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventModified, Path: page})
	assert.Equal(t, dispatcher.ActionRebuiltPage, action)
}

func TestDispatcher_PageUnchanged(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	page := f.content("blog/post.markdown")

	f.cache.EXPECT().ShouldRebuild(page).Return(false)

	action := f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventCreated, Path: page})
	assert.Equal(t, dispatcher.ActionSkipped, action)
}

func TestDispatcher_PageBuildFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	page := f.content("post.md")

	f.cache.EXPECT().ShouldRebuild(page).Return(true)
	f.builder.EXPECT().BuildFile(gomock.Any(), page).Return(domain.ErrLayoutNotFound)
	f.cache.EXPECT().Remove(page)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
	})
	f.notifier.EXPECT().Broadcast(domain.ReloadPayload).Times(1)

	action := f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventModified, Path: page})
	assert.Equal(t, dispatcher.ActionRebuiltPage, action)
}

func TestDispatcher_PageDeletedRemovesOnlyItsOutput(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.site.OutputDir, 0o750))
	post := filepath.Join(f.site.OutputDir, "post.html")
	other := filepath.Join(f.site.OutputDir, "other.html")
	require.NoError(t, os.WriteFile(post, []byte("<p>post</p>"), 0o600))
	require.NoError(t, os.WriteFile(other, []byte("<p>other</p>"), 0o600))

	page := f.content("post.md")
	f.cache.EXPECT().Remove(page)
	f.tracker.EXPECT().Forget(page)
	f.notifier.EXPECT().Broadcast(domain.ReloadPayload).Times(1)

	action := f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventDeleted, Path: page})
	assert.Equal(t, dispatcher.ActionRemoved, action)

	assert.NoFileExists(t, post)
	assert.FileExists(t, other)
}

func TestDispatcher_PageDeletedWithoutOutput(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	page := f.content("never-built.md")

	f.cache.EXPECT().Remove(page)
	f.tracker.EXPECT().Forget(page)
	f.notifier.EXPECT().Broadcast(domain.ReloadPayload)

	action := f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventDeleted, Path: page})
	assert.Equal(t, dispatcher.ActionRemoved, action)
}

func TestDispatcher_TemplateRebuildsOnce(t *testing.T) {
	t.Parallel()

	built := make([]string, 50)
	for i := range built {
		built[i] = fmt.Sprintf("page-%02d.md", i)
	}

	tests := []struct {
		name string
		path func(*domain.Site) string
	}{
		{name: "layout", path: func(s *domain.Site) string { return filepath.Join(s.LayoutsDir, "base.html") }},
		{name: "partial", path: func(s *domain.Site) string { return filepath.Join(s.PartialsDir, "header.md") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			f.builder.EXPECT().
				BuildDirectory(gomock.Any(), f.site.ContentDir).
				Return(domain.BuildReport{Built: built}, nil).
				Times(1)
			f.notifier.EXPECT().Broadcast(domain.ReloadPayload).Times(1)

			action := f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventModified, Path: tt.path(f.site)})
			assert.Equal(t, dispatcher.ActionRebuiltSite, action)
		})
	}
}

func TestDispatcher_TemplateRebuildFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.builder.EXPECT().
		BuildDirectory(gomock.Any(), f.site.ContentDir).
		Return(domain.BuildReport{}, domain.ErrBuildFailed)
	f.logger.EXPECT().Error(gomock.Any())
	f.notifier.EXPECT().Broadcast(domain.ReloadPayload).Times(1)

	action := f.d.Handle(context.Background(), domain.FileEvent{
		Kind: domain.EventDeleted,
		Path: filepath.Join(f.site.LayoutsDir, "default.html"),
	})
	assert.Equal(t, dispatcher.ActionRebuiltSite, action)
}

func TestDispatcher_AssetReloadsOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.notifier.EXPECT().Broadcast(domain.ReloadPayload).Times(3)

	for _, path := range []string{
		filepath.Join(f.site.PublicDir, "style.css"),
		filepath.Join(f.site.PublicDir, "app.js"),
		filepath.Join(f.site.PublicDir, "embed.html"),
	} {
		action := f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventModified, Path: path})
		assert.Equal(t, dispatcher.ActionReloaded, action, path)
	}
}

func TestDispatcher_UnknownIgnored(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	for _, path := range []string{
		filepath.Join(f.site.PublicDir, "logo.png"),
		f.content("_drafts/wip.md"),
		filepath.Join(f.site.Root, "notes.md"),
	} {
		action := f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventModified, Path: path})
		assert.Equal(t, dispatcher.ActionIgnored, action, path)
	}
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	page := f.content("post.md")

	f.cache.EXPECT().ShouldRebuild(page).Return(true)
	f.builder.EXPECT().BuildFile(gomock.Any(), page).Do(func(context.Context, string) {
		panic("renderer exploded")
	})
	f.logger.EXPECT().Error(gomock.Any())

	var action dispatcher.Action
	require.NotPanics(t, func() {
		action = f.d.Handle(context.Background(), domain.FileEvent{Kind: domain.EventModified, Path: page})
	})
	assert.Equal(t, dispatcher.ActionIgnored, action)
}

func TestDispatcher_Callback(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "dev")
	page := f.content("post.md")

	f.cache.EXPECT().ShouldRebuild(page).Return(true)
	f.builder.EXPECT().BuildFile(gomock.Any(), page).DoAndReturn(func(got context.Context, _ string) error {
		assert.Equal(t, "dev", got.Value(ctxKey{}))
		return nil
	})
	f.notifier.EXPECT().Broadcast(domain.ReloadPayload)

	f.d.Callback(ctx)(domain.FileEvent{Kind: domain.EventModified, Path: page})
}

func TestAction_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ignored", dispatcher.ActionIgnored.String())
	assert.Equal(t, "skipped", dispatcher.ActionSkipped.String())
	assert.Equal(t, "removed", dispatcher.ActionRemoved.String())
	assert.Equal(t, "rebuilt page", dispatcher.ActionRebuiltPage.String())
	assert.Equal(t, "rebuilt site", dispatcher.ActionRebuiltSite.String())
	assert.Equal(t, "reloaded", dispatcher.ActionReloaded.String())
}
