// Package transport connects sessions and runtimes through a WebSocket pub/sub relay.
package transport

import (
	"encoding/json"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
)

// Op identifies the kind of a frame.
type Op string

const (
	// OpSubscribe joins a channel. Sent by peers.
	OpSubscribe Op = "subscribe"
	// OpUnsubscribe leaves a channel. Sent by peers.
	OpUnsubscribe Op = "unsubscribe"
	// OpPublish sends a message to the other members of a channel. Sent by peers.
	OpPublish Op = "publish"
	// OpPing keeps the connection alive. Sent by peers.
	OpPing Op = "ping"
	// OpMessage delivers a published message. Sent by the relay.
	OpMessage Op = "message"
	// OpPresence reports a member joining or leaving. Sent by the relay.
	OpPresence Op = "presence"
)

// Frame is the JSON text frame exchanged with the relay.
type Frame struct {
	Op      Op                    `json:"op"`
	Channel string                `json:"channel,omitempty"`
	Message json.RawMessage       `json:"message,omitempty"`
	Action  domain.PresenceAction `json:"action,omitempty"`
	UUID    string                `json:"uuid,omitempty"`
}

// UUIDParam is the query parameter carrying a peer's presence identity.
const UUIDParam = "uuid"

// Settings tunes connection timing.
type Settings struct {
	HandshakeTimeout time.Duration
	ReconnectTimeout time.Duration
	PingInterval     time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
}

// DefaultSettings returns the timing used by the client and the relay.
// The read timeout doubles as the relay's presence timeout.
func DefaultSettings() Settings {
	return Settings{
		HandshakeTimeout: 5 * time.Second,
		ReconnectTimeout: 5 * time.Second,
		PingInterval:     20 * time.Second,
		WriteTimeout:     5 * time.Second,
		ReadTimeout:      60 * time.Second,
	}
}
