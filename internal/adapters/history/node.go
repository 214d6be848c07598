package history

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

// NodeID is the unique identifier for the history store Graft node.
const NodeID graft.ID = "adapter.history"

// Factory builds the history store of a project root.
type Factory func(root string) ports.HistoryStore

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return func(root string) ports.HistoryStore {
				return NewStore(afero.NewOsFs(), domain.DefaultHistoryPath(root))
			}, nil
		},
	})
}
