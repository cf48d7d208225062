// Package app implements the application layer for xo.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"go.trai.ch/xo/internal/adapters/config"   //nolint:depguard // validated overrides
	"go.trai.ch/xo/internal/adapters/detector" //nolint:depguard // log format selection
	"go.trai.ch/xo/internal/adapters/logger"   //nolint:depguard // log configuration
	"go.trai.ch/xo/internal/adapters/server"   //nolint:depguard // dev server
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/xo/internal/engine/dispatcher"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// SiteBuilder is the builder App drives. Beyond ports.Builder it can enumerate pages
// and build an explicit subset of them.
type SiteBuilder interface {
	ports.Builder
	Pages(root string) []string
	BuildPages(ctx context.Context, pages []string) (domain.BuildReport, error)
}

// BuilderFunc creates the builder for a loaded site.
type BuilderFunc func(site *domain.Site) SiteBuilder

// WatcherFunc creates the watcher for a loaded site.
type WatcherFunc func(site *domain.Site) (ports.Watcher, error)

// ListenFunc opens the dev server listener on addr.
type ListenFunc func(ctx context.Context, addr string) (net.Listener, error)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	cache        ports.BuildCache
	tracker      ports.DependencyTracker
	builderFor   BuilderFunc
	watcherFor   WatcherFunc
	hub          *server.Hub
	listen       ListenFunc
	workDir      string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	cache ports.BuildCache,
	tracker ports.DependencyTracker,
	builderFor BuilderFunc,
	watcherFor WatcherFunc,
	hub *server.Hub,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		cache:        cache,
		tracker:      tracker,
		builderFor:   builderFor,
		watcherFor:   watcherFor,
		hub:          hub,
		listen: func(ctx context.Context, addr string) (net.Listener, error) {
			return (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
		},
		workDir: ".",
	}
}

// WithWorkDir sets the directory configuration discovery starts from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithListenFunc replaces how the dev server listener is opened.
// This is primarily used by tests to listen on an ephemeral port.
func (a *App) WithListenFunc(listen ListenFunc) *App {
	a.listen = listen
	return a
}

// LogOptions configures log output.
type LogOptions struct {
	Verbose bool
	Format  string
}

// ConfigureLogging applies the verbosity and format flags to the logger.
func (a *App) ConfigureLogging(opts LogOptions) error {
	env := detector.DetectEnvironment()
	format, err := detector.ResolveFormat(env, opts.Format)
	if err != nil {
		return err
	}

	lg, ok := a.logger.(*logger.Logger)
	if !ok {
		return nil
	}
	lg.SetVerbose(opts.Verbose)
	lg.SetColorProfile(env.Profile())
	lg.SetJSON(format == detector.FormatJSON)
	return nil
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Clean removes the output tree and build state first.
	Clean bool
	// Force rebuilds every page regardless of the cache.
	Force bool
}

// Build renders every page whose source, dependencies or output changed since the
// last build, mirrors the public directory, and persists the build state.
func (a *App) Build(ctx context.Context, opts BuildOptions) (domain.BuildReport, error) {
	site, err := a.loadSite(siteOverrides{})
	if err != nil {
		return domain.BuildReport{}, err
	}
	return a.build(ctx, site, a.builderFor(site), opts)
}

func (a *App) build(
	ctx context.Context,
	site *domain.Site,
	builder SiteBuilder,
	opts BuildOptions,
) (domain.BuildReport, error) {
	if opts.Clean {
		if err := a.removeAll(site.OutputDir, "output"); err != nil {
			return domain.BuildReport{}, err
		}
		if err := a.removeAll(site.StateDir, "build state"); err != nil {
			return domain.BuildReport{}, err
		}
	}
	a.loadState(site)

	toBuild, skipped := a.plan(site, builder.Pages(site.ContentDir), opts.Force)
	a.logger.Debug(fmt.Sprintf("%d page(s) to build, %d up to date", len(toBuild), len(skipped)))

	report, buildErr := builder.BuildPages(ctx, toBuild)
	report.Skipped = skipped
	for _, failure := range report.Failed {
		a.cache.Remove(failure.Path)
	}

	var errs []error
	if buildErr != nil {
		errs = append(errs, buildErr)
	}
	if ctx.Err() == nil {
		if err := builder.CopyPublic(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.saveState(site); err != nil {
		errs = append(errs, err)
	}

	summary := fmt.Sprintf("built %d, skipped %d", len(report.Built), len(report.Skipped))
	if !report.OK() {
		summary += fmt.Sprintf(", failed %d", len(report.Failed))
	}
	a.logger.Info(summary)

	return report, errors.Join(errs...)
}

// plan splits pages into those that must be built and those that are up to date.
// Every decision is made before any page is built, because building a page records
// fresh digests for the shared files it uses.
func (a *App) plan(site *domain.Site, pages []string, force bool) (toBuild, skipped []string) {
	for _, page := range pages {
		if force || a.stale(site, page) {
			toBuild = append(toBuild, page)
		} else {
			skipped = append(skipped, page)
		}
	}
	return toBuild, skipped
}

func (a *App) stale(site *domain.Site, page string) bool {
	if a.cache.ShouldRebuild(page) {
		return true
	}
	for _, dep := range a.tracker.Dependencies(page) {
		if a.cache.ShouldRebuild(dep) {
			return true
		}
	}
	out, ok := site.OutputPath(page)
	if !ok {
		return true
	}
	_, err := os.Stat(out)
	return err != nil
}

// loadState restores the cache and tracker. Unreadable state only costs a rebuild.
func (a *App) loadState(site *domain.Site) {
	if err := a.cache.Load(site.CachePath()); err != nil {
		a.logger.Warn(fmt.Sprintf("ignoring build cache: %v", err))
	}
	if err := a.tracker.Load(site.DepsPath()); err != nil {
		a.logger.Warn(fmt.Sprintf("ignoring dependency graph: %v", err))
	}
}

func (a *App) saveState(site *domain.Site) error {
	return errors.Join(
		a.cache.Save(site.CachePath()),
		a.tracker.Save(site.DepsPath()),
	)
}

// DevOptions configuration for the Dev method.
type DevOptions struct {
	// Port overrides the configured port when positive.
	Port int
	// Backend overrides the configured watch backend when set.
	Backend string
	// Sync handles events on the watcher worker instead of a queue.
	Sync bool
}

// Dev builds the site, then serves it with live reload while rebuilding on every
// change, until ctx is done.
func (a *App) Dev(ctx context.Context, opts DevOptions) error {
	site, err := a.loadSite(siteOverrides{port: opts.Port, backend: opts.Backend})
	if err != nil {
		return err
	}
	builder := a.builderFor(site)

	if _, err := a.build(ctx, site, builder, BuildOptions{}); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		a.logger.Error(zerr.Wrap(err, "initial build incomplete"))
	}

	w, err := a.watcherFor(site)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort("localhost", strconv.Itoa(site.Port))
	ln, err := a.listen(ctx, addr)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrServerFailed, err.Error()), "addr", addr)
	}

	d := dispatcher.New(site, builder, a.cache, a.tracker, a.hub, a.logger)
	srv := server.New(site, a.hub, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	g.Go(func() error {
		return a.watch(gctx, w, d, opts.Sync)
	})

	err = g.Wait()
	if saveErr := a.saveState(site); saveErr != nil {
		a.logger.Warn(fmt.Sprintf("failed to save build state: %v", saveErr))
	}
	return err
}

// watch runs the watcher until ctx is done. Shutdown stops delivery first, then
// drains queued events so the saved state matches the output tree.
func (a *App) watch(ctx context.Context, w ports.Watcher, d *dispatcher.Dispatcher, synchronous bool) error {
	callback := d.Callback(ctx)
	var queue *dispatcher.Queue
	if !synchronous {
		queue = dispatcher.NewQueue(context.WithoutCancel(ctx), dispatcher.DefaultQueueSize, d.HandlerFunc())
		callback = queue.Callback()
	}

	startErr := w.Start(ctx, callback)
	if startErr == nil {
		a.logger.Info("watching for changes")
		<-ctx.Done()
	}

	stopErr := w.Stop()
	if queue != nil {
		queue.Close()
	}
	return errors.Join(startErr, stopErr)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Output bool
	State  bool
}

// Clean removes the output tree and persisted build state.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	site, err := a.loadSite(siteOverrides{})
	if err != nil {
		return err
	}

	var errs []error
	if opts.Output {
		errs = append(errs, a.removeAll(site.OutputDir, "output"))
	}
	if opts.State {
		errs = append(errs, a.removeAll(site.StateDir, "build state"))
	}
	return errors.Join(errs...)
}

func (a *App) removeAll(path, name string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove "+name), "path", path)
	}
	a.logger.Info(fmt.Sprintf("removed %s %s", name, path))
	return nil
}

type siteOverrides struct {
	port    int
	backend string
}

func (a *App) loadSite(overrides siteOverrides) (*domain.Site, error) {
	site, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if overrides.port == 0 && overrides.backend == "" {
		return site, nil
	}

	if overrides.port != 0 {
		site.Port = overrides.port
	}
	if overrides.backend != "" {
		site.Backend = overrides.backend
	}
	if err := config.Validate(site); err != nil {
		return nil, err
	}
	return site, nil
}
