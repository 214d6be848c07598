package ports

import (
	"context"
	"encoding/json"

	"go.trai.ch/livepush/internal/core/domain"
)

//go:generate mockgen -source=transport.go -destination=mocks/mock_transport.go -package=mocks

// MessageHandler receives a message published on a subscribed channel.
// A returned error is reported by the transport.
type MessageHandler func(channel string, message json.RawMessage) error

// PresenceHandler receives presence changes on a subscribed channel.
type PresenceHandler func(action domain.PresenceAction, uuid string)

// StatusHandler receives connectivity changes.
type StatusHandler func(status domain.ConnectivityStatus)

// Transport is the pub/sub channel connecting the session to runtimes.
type Transport interface {
	// Subscribe joins the channel with presence enabled.
	Subscribe(ctx context.Context, channel string) error
	// Unsubscribe leaves the channel.
	Unsubscribe(ctx context.Context, channel string) error
	// Publish encodes message as JSON and sends it to every subscriber of the channel.
	Publish(ctx context.Context, channel string, message any) error
	// OnMessage registers the handler for inbound messages.
	OnMessage(handler MessageHandler)
	// OnPresence registers the handler for presence events.
	OnPresence(handler PresenceHandler)
	// OnStatus registers the handler for connectivity changes.
	OnStatus(handler StatusHandler)
	// Close releases the connection.
	Close() error
}
