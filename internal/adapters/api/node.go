package api

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/livepush/internal/core/domain"
)

// NodeID is the unique identifier for the API client Graft node.
const NodeID graft.ID = "adapter.api"

// Factory builds an API client for a loaded configuration.
type Factory func(cfg *domain.Config) *Client

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return func(cfg *domain.Config) *Client {
				return NewClient(cfg.APIURL, WithKeepAliveURL(cfg.KeepAlive.URL))
			}, nil
		},
	})
}
