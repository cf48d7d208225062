// Package dispatcher turns filesystem events into rebuilds and live-reload signals.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/zerr"
)

// Action is what the dispatcher did with an event.
type Action uint8

const (
	// ActionIgnored means the path matched no rule.
	ActionIgnored Action = iota
	// ActionSkipped means a page's content matched the cache.
	ActionSkipped
	// ActionRemoved means a deleted page's output was removed.
	ActionRemoved
	// ActionRebuiltPage means a single page was rebuilt.
	ActionRebuiltPage
	// ActionRebuiltSite means the whole content tree was rebuilt.
	ActionRebuiltSite
	// ActionReloaded means only a reload was signalled.
	ActionReloaded
)

// String returns the lowercase name of the action.
func (a Action) String() string {
	switch a {
	case ActionSkipped:
		return "skipped"
	case ActionRemoved:
		return "removed"
	case ActionRebuiltPage:
		return "rebuilt page"
	case ActionRebuiltSite:
		return "rebuilt site"
	case ActionReloaded:
		return "reloaded"
	default:
		return "ignored"
	}
}

// Dispatcher classifies watcher events and drives the builder and notifier.
// Handle is meant to be called from a single goroutine at a time.
type Dispatcher struct {
	site     *domain.Site
	builder  ports.Builder
	cache    ports.BuildCache
	tracker  ports.DependencyTracker
	notifier ports.Notifier
	logger   ports.Logger
}

// New creates a Dispatcher for site.
func New(
	site *domain.Site,
	builder ports.Builder,
	cache ports.BuildCache,
	tracker ports.DependencyTracker,
	notifier ports.Notifier,
	logger ports.Logger,
) *Dispatcher {
	return &Dispatcher{
		site:     site,
		builder:  builder,
		cache:    cache,
		tracker:  tracker,
		notifier: notifier,
		logger:   logger,
	}
}

// Callback adapts Handle to the watcher callback signature, binding ctx to every call.
func (d *Dispatcher) Callback(ctx context.Context) ports.WatchCallback {
	return func(ev domain.FileEvent) {
		d.Handle(ctx, ev)
	}
}

// HandlerFunc returns Handle with its result discarded, for use with a Queue.
func (d *Dispatcher) HandlerFunc() HandlerFunc {
	return func(ctx context.Context, ev domain.FileEvent) {
		d.Handle(ctx, ev)
	}
}

// Handle applies the first matching rule to ev: page, shared template, static asset.
// Errors are logged, never returned, and a panic in a collaborator is recovered.
func (d *Dispatcher) Handle(ctx context.Context, ev domain.FileEvent) (action Action) {
	defer zerr.Defer(func(err error) {
		d.logger.Error(zerr.With(zerr.Wrap(err, "rebuild panicked"), "path", ev.Path))
		action = ActionIgnored
	})

	switch {
	case d.site.IsPage(ev.Path):
		return d.handlePage(ctx, ev)
	case d.site.IsTemplate(ev.Path):
		return d.handleTemplate(ctx, ev)
	case d.site.IsAsset(ev.Path):
		d.logger.Info(fmt.Sprintf("%s %s", ev.Kind, ev.Path))
		d.reload()
		return ActionReloaded
	default:
		d.logger.Debug(fmt.Sprintf("ignoring %s %s", ev.Kind, ev.Path))
		return ActionIgnored
	}
}

func (d *Dispatcher) handlePage(ctx context.Context, ev domain.FileEvent) Action {
	if ev.Kind == domain.EventDeleted {
		d.removeOutput(ev.Path)
		d.cache.Remove(ev.Path)
		d.tracker.Forget(ev.Path)
		d.reload()
		return ActionRemoved
	}

	if !d.cache.ShouldRebuild(ev.Path) {
		d.logger.Debug(fmt.Sprintf("unchanged %s", ev.Path))
		return ActionSkipped
	}

	if err := d.builder.BuildFile(ctx, ev.Path); err != nil {
		// Keep the page stale so the next build retries it.
		d.cache.Remove(ev.Path)
		d.logger.Error(zerr.With(zerr.Wrap(err, "rebuild failed"), "path", ev.Path))
	} else {
		d.logger.Info(fmt.Sprintf("rebuilt %s", ev.Path))
	}
	d.reload()
	return ActionRebuiltPage
}

func (d *Dispatcher) handleTemplate(ctx context.Context, ev domain.FileEvent) Action {
	d.logger.Info(fmt.Sprintf("%s %s, rebuilding all pages", ev.Kind, ev.Path))

	report, err := d.builder.BuildDirectory(ctx, d.site.ContentDir)
	if err != nil {
		d.logger.Error(zerr.With(zerr.Wrap(err, "rebuild failed"), "path", ev.Path))
	} else {
		d.logger.Info(fmt.Sprintf("rebuilt %d page(s)", len(report.Built)))
	}
	d.reload()
	return ActionRebuiltSite
}

// removeOutput deletes the output of a deleted page if it exists.
func (d *Dispatcher) removeOutput(page string) {
	out, ok := d.site.OutputPath(page)
	if !ok {
		return
	}
	if err := os.Remove(out); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn(fmt.Sprintf("failed to remove %s: %v", out, err))
		}
		return
	}
	d.logger.Info(fmt.Sprintf("removed %s", out))
}

func (d *Dispatcher) reload() {
	d.notifier.Broadcast(domain.ReloadPayload)
}
