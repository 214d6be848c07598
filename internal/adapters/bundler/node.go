package bundler

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/livepush/internal/adapters/logger"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

// NodeID is the unique identifier for the bundler Graft node.
const NodeID graft.ID = "adapter.bundler"

// Factory builds a bundler client for a loaded configuration.
type Factory func(cfg *domain.Config) ports.Bundler

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
			return func(cfg *domain.Config) ports.Bundler {
				cache := NewCache(afero.NewOsFs(), domain.DefaultBundleCachePath(cfg.Root))
				return NewClient(cfg.BundlerURL, WithCache(cache), WithLogger(log))
			}, nil
		},
	})
}
