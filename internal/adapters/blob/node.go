package blob

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/livepush/internal/adapters/api"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the blob store Graft node.
const NodeID graft.ID = "adapter.blob"

// Factory builds the blob store selected by a loaded configuration.
type Factory func(ctx context.Context, cfg *domain.Config) (ports.BlobStore, error)

// New returns the store for cfg.Blob.Driver. The api driver uploads through client.
func New(ctx context.Context, cfg *domain.Config, client *api.Client) (ports.BlobStore, error) {
	switch cfg.Blob.Driver {
	case domain.BlobDriverAPI, "":
		return client, nil
	case domain.BlobDriverS3:
		s3Client, err := NewS3Client(ctx, cfg.Blob.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Store(s3Client, cfg.Blob.S3), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownBlobDriver, ""), "driver", string(cfg.Blob.Driver))
	}
}

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{api.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			newAPI, err := graft.Dep[api.Factory](ctx)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context, cfg *domain.Config) (ports.BlobStore, error) {
				return New(ctx, cfg, newAPI(cfg))
			}, nil
		},
	})
}
