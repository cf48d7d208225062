package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/xo/internal/adapters/detector"
	"go.trai.ch/xo/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			// Errors raised before flags are parsed still follow the environment.
			env := detector.DetectEnvironment()
			l := &Logger{}
			l.configure(env.Profile(), env.Format() == detector.FormatJSON)
			return l, nil
		},
	})
}
