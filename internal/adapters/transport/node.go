package transport

import (
	"context"

	"github.com/google/uuid"
	"github.com/grindlemire/graft"
	"go.trai.ch/livepush/internal/adapters/logger"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

// NodeID is the unique identifier for the transport Graft node.
const NodeID graft.ID = "adapter.transport"

// Factory creates a transport connected to the relay configured in cfg.
type Factory func(cfg *domain.Config) ports.Transport

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
			return func(cfg *domain.Config) ports.Transport {
				return NewClient(cfg.RelayURL, "session-"+uuid.NewString(), DefaultSettings(), log)
			}, nil
		},
	})
}
