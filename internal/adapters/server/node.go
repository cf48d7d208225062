package server

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xo/internal/adapters/logger"
	"go.trai.ch/xo/internal/core/ports"
)

// HubNodeID is the unique identifier for the live-reload hub Graft node.
const HubNodeID graft.ID = "adapter.server.hub"

func init() {
	graft.Register(graft.Node[*Hub]{
		ID:        HubNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Hub, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewHub(log), nil
		},
	})
}
