package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/livepush/internal/adapters/annotator" //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/api"       //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/blob"      //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/bundler"   //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/history"   //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/transport" //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.ReaderNodeID,
			annotator.NodeID,
			metrics.NodeID,
			api.NodeID,
			blob.NodeID,
			bundler.NodeID,
			transport.NodeID,
			watcher.NodeID,
			history.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	reader, err := graft.Dep[ports.ProjectReader](ctx)
	if err != nil {
		return nil, err
	}
	ann, err := graft.Dep[ports.Annotator](ctx)
	if err != nil {
		return nil, err
	}
	recorder, err := graft.Dep[*metrics.Recorder](ctx)
	if err != nil {
		return nil, err
	}
	newAPI, err := graft.Dep[api.Factory](ctx)
	if err != nil {
		return nil, err
	}
	newBlobs, err := graft.Dep[blob.Factory](ctx)
	if err != nil {
		return nil, err
	}
	newBundler, err := graft.Dep[bundler.Factory](ctx)
	if err != nil {
		return nil, err
	}
	newTransport, err := graft.Dep[transport.Factory](ctx)
	if err != nil {
		return nil, err
	}
	newWatcher, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}
	newHistory, err := graft.Dep[history.Factory](ctx)
	if err != nil {
		return nil, err
	}
	newTracer, err := graft.Dep[telemetry.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, reader, ann, recorder, Factories{
		Remote: func(cfg *domain.Config) Remote {
			return newAPI(cfg)
		},
		Blobs:     newBlobs,
		Bundler:   newBundler,
		Transport: newTransport,
		Watcher:   newWatcher,
		History:   newHistory,
		Tracer:    newTracer,
	}), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
