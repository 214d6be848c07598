package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/livepush/internal/adapters/logger"
	"go.trai.ch/livepush/internal/core/ports"
)

// NodeID is the unique identifier for the file watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

// Factory creates a watcher that skips the given ignore patterns.
type Factory func(ignore []string) (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func(ignore []string) (ports.Watcher, error) {
				return NewWatcher(log, ignore)
			}, nil
		},
	})
}
