package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xo/internal/adapters/fs"
	"go.trai.ch/xo/internal/core/ports"
)

const (
	// BuildCacheNodeID is the unique identifier for the build cache Graft node.
	BuildCacheNodeID graft.ID = "adapter.cas.build_cache"
	// TrackerNodeID is the unique identifier for the dependency tracker Graft node.
	TrackerNodeID graft.ID = "adapter.cas.tracker"
)

func init() {
	graft.Register(graft.Node[ports.BuildCache]{
		ID:        BuildCacheNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.BuildCache, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuildCache(hasher), nil
		},
	})

	graft.Register(graft.Node[ports.DependencyTracker]{
		ID:        TrackerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DependencyTracker, error) {
			return NewTracker(), nil
		},
	})
}
