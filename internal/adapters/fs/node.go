package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/livepush/internal/core/ports"
)

// ReaderNodeID is the unique identifier for the project reader Graft node.
const ReaderNodeID graft.ID = "adapter.fs.reader"

func init() {
	graft.Register(graft.Node[ports.ProjectReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectReader, error) {
			return NewReader(afero.NewOsFs()), nil
		},
	})
}
