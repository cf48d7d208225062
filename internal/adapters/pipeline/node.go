package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xo/internal/adapters/cas"
	"go.trai.ch/xo/internal/adapters/logger"
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline factory Graft node.
const NodeID graft.ID = "adapter.pipeline"

// Factory creates pipelines sharing one cache and tracker.
type Factory struct {
	cache   ports.BuildCache
	tracker ports.DependencyTracker
	logger  ports.Logger
}

// NewFactory creates a Factory.
func NewFactory(cache ports.BuildCache, tracker ports.DependencyTracker, logger ports.Logger) *Factory {
	return &Factory{cache: cache, tracker: tracker, logger: logger}
}

// ForSite creates the pipeline for a loaded site.
func (f *Factory) ForSite(site *domain.Site) *Pipeline {
	return New(site, f.cache, f.tracker, f.logger)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.BuildCacheNodeID, cas.TrackerNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Factory, error) {
			cache, err := graft.Dep[ports.BuildCache](ctx)
			if err != nil {
				return nil, err
			}
			tracker, err := graft.Dep[ports.DependencyTracker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(cache, tracker, log), nil
		},
	})
}
