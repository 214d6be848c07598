package annotator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/livepush/internal/core/ports"
)

const NodeID graft.ID = "adapter.annotator"

func init() {
	graft.Register(graft.Node[ports.Annotator]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Annotator, error) {
			return New(), nil
		},
	})
}
