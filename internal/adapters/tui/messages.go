package tui

import (
	"time"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

// MsgSessionStart carries the session header.
type MsgSessionStart struct {
	Info ports.SessionInfo
}

// MsgActivityStart is sent when a traced operation begins.
type MsgActivityStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgActivityComplete is sent when a traced operation finishes.
type MsgActivityComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// MsgPresence is sent when a runtime joins or leaves.
type MsgPresence struct {
	Event domain.PresenceEvent
}

// MsgDeviceLog is sent for each console call on a runtime.
type MsgDeviceLog struct {
	Log domain.DeviceLog
}

// MsgDeviceErrors replaces the errors shown for the reporting runtimes.
type MsgDeviceErrors struct {
	Errors []domain.DeviceError
}
