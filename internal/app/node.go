package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xo/internal/adapters/cas"      //nolint:depguard // Wired in app layer
	"go.trai.ch/xo/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/xo/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/xo/internal/adapters/pipeline" //nolint:depguard // Wired in app layer
	"go.trai.ch/xo/internal/adapters/server"   //nolint:depguard // Wired in app layer
	"go.trai.ch/xo/internal/adapters/watcher"  //nolint:depguard // Wired in app layer
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			cas.BuildCacheNodeID,
			cas.TrackerNodeID,
			pipeline.NodeID,
			watcher.NodeID,
			server.HubNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	cache, err := graft.Dep[ports.BuildCache](ctx)
	if err != nil {
		return nil, err
	}
	tracker, err := graft.Dep[ports.DependencyTracker](ctx)
	if err != nil {
		return nil, err
	}
	pipelines, err := graft.Dep[*pipeline.Factory](ctx)
	if err != nil {
		return nil, err
	}
	watchers, err := graft.Dep[*watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}
	hub, err := graft.Dep[*server.Hub](ctx)
	if err != nil {
		return nil, err
	}

	builderFor := func(site *domain.Site) SiteBuilder {
		return pipelines.ForSite(site)
	}
	watcherFor := func(site *domain.Site) (ports.Watcher, error) {
		w, err := watchers.ForSite(site)
		if err != nil {
			return nil, err
		}
		return w, nil
	}

	return New(loader, log, cache, tracker, builderFor, watcherFor, hub), nil
}
