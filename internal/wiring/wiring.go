// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/livepush/internal/adapters/annotator"
	_ "go.trai.ch/livepush/internal/adapters/api"
	_ "go.trai.ch/livepush/internal/adapters/blob"
	_ "go.trai.ch/livepush/internal/adapters/bundler"
	_ "go.trai.ch/livepush/internal/adapters/config"
	_ "go.trai.ch/livepush/internal/adapters/fs"
	_ "go.trai.ch/livepush/internal/adapters/history"
	_ "go.trai.ch/livepush/internal/adapters/logger"
	_ "go.trai.ch/livepush/internal/adapters/metrics"
	_ "go.trai.ch/livepush/internal/adapters/telemetry"
	_ "go.trai.ch/livepush/internal/adapters/transport"
	_ "go.trai.ch/livepush/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/livepush/internal/app"
)
