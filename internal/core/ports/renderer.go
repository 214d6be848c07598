package ports

import (
	"context"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
)

// Renderer is the abstraction for session output.
// It lets the same event stream drive either a rich TUI or linear logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush its output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnSessionStart is called once the session is subscribed.
	OnSessionStart(info SessionInfo)

	// OnActivityStart is called when a traced operation begins.
	OnActivityStart(spanID, name string, startTime time.Time)

	// OnActivityComplete is called when a traced operation finishes.
	OnActivityComplete(spanID string, endTime time.Time, err error)

	// OnPresence is called when a runtime joins or leaves.
	OnPresence(event domain.PresenceEvent)

	// OnDeviceLog is called for every console call made on a runtime.
	OnDeviceLog(log domain.DeviceLog)

	// OnDeviceErrors is called when a runtime reports errors. An empty slice clears them.
	OnDeviceErrors(errs []domain.DeviceError)
}

// SessionInfo is shown when a session starts.
type SessionInfo struct {
	Name       string
	Channel    string
	SDKVersion string
	URL        string
	User       string
}
