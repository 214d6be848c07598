package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/livepush/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// Factory creates a tracer that reports spans to a renderer.
type Factory func(renderer ports.Renderer) *OTelTracer

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return NewOTelTracer, nil
		},
	})
}
