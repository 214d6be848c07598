package transport

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// Client implements ports.Transport over a single WebSocket connection.
// It reconnects on its own and renews subscriptions after every reconnect.
type Client struct {
	url      string
	uuid     string
	settings Settings
	logger   ports.Logger
	dialer   *websocket.Dialer

	mu         sync.Mutex
	conn       *websocket.Conn
	channels   map[string]struct{}
	onMessage  ports.MessageHandler
	onPresence ports.PresenceHandler
	onStatus   ports.StatusHandler
	started    bool
	closed     bool

	writeMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

var _ ports.Transport = (*Client)(nil)

// NewClient creates a client for the relay at rawURL that announces itself as uuid.
func NewClient(rawURL, uuid string, settings Settings, logger ports.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		url:      rawURL,
		uuid:     uuid,
		settings: settings,
		logger:   logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: settings.HandshakeTimeout,
		},
		channels: make(map[string]struct{}),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// OnMessage registers the handler for inbound messages.
func (c *Client) OnMessage(handler ports.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = handler
}

// OnPresence registers the handler for presence events.
func (c *Client) OnPresence(handler ports.PresenceHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPresence = handler
}

// OnStatus registers the handler for connectivity changes.
func (c *Client) OnStatus(handler ports.StatusHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStatus = handler
}

// Subscribe joins channel. The connection is established in the background on first use,
// so a successful return does not mean the relay has been reached yet.
func (c *Client) Subscribe(_ context.Context, channel string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrTransportClosed
	}
	c.channels[channel] = struct{}{}
	conn := c.conn
	if !c.started {
		c.started = true
		go c.run()
	}
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return c.write(conn, Frame{Op: OpSubscribe, Channel: channel})
}

// Unsubscribe leaves channel.
func (c *Client) Unsubscribe(_ context.Context, channel string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrTransportClosed
	}
	delete(c.channels, channel)
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return c.write(conn, Frame{Op: OpUnsubscribe, Channel: channel})
}

// Publish encodes message and sends it to the other members of channel.
func (c *Client) Publish(_ context.Context, channel string, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return zerr.Wrap(err, domain.ErrPublishFailed.Error())
	}

	c.mu.Lock()
	closed, conn := c.closed, c.conn
	c.mu.Unlock()

	switch {
	case closed:
		return domain.ErrTransportClosed
	case conn == nil:
		return domain.ErrTransportNotConnected
	}
	return c.write(conn, Frame{Op: OpPublish, Channel: channel, Message: data})
}

// Close releases the connection and stops reconnecting.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.started
	conn := c.conn
	c.mu.Unlock()

	c.cancel()
	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.settings.WriteTimeout))
		c.writeMu.Unlock()
		_ = conn.Close()
	}
	if started {
		<-c.done
	}
	return nil
}

func (c *Client) write(conn *websocket.Conn, frame Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(c.settings.WriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPublishFailed.Error()), "op", string(frame.Op))
	}
	return nil
}

func (c *Client) dialURL() (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "invalid relay url"), "url", c.url)
	}
	q := u.Query()
	q.Set(UUIDParam, c.uuid)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) emitStatus(status domain.ConnectivityStatus) {
	c.mu.Lock()
	handler := c.onStatus
	c.mu.Unlock()
	if handler != nil {
		handler(status)
	}
}

// run keeps a connection open until the client is closed.
func (c *Client) run() {
	defer close(c.done)

	target, err := c.dialURL()
	if err != nil {
		c.logger.Error(err)
		return
	}

	connectedBefore := false
	for {
		conn, _, err := c.dialer.DialContext(c.ctx, target, nil)
		if err != nil {
			c.logger.Debug("Could not reach relay: " + err.Error())
			if !c.sleep(c.settings.ReconnectTimeout) {
				return
			}
			continue
		}

		if !c.attach(conn) {
			_ = conn.Close()
			return
		}
		if connectedBefore {
			c.emitStatus(domain.StatusReconnected)
			c.emitStatus(domain.StatusNetworkUp)
		} else {
			c.emitStatus(domain.StatusConnected)
		}
		connectedBefore = true

		c.serve(conn)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()

		if c.ctx.Err() != nil {
			return
		}
		c.emitStatus(domain.StatusNetworkDown)
		if !c.sleep(c.settings.ReconnectTimeout) {
			return
		}
	}
}

// attach publishes conn to writers and renews every subscription on it.
func (c *Client) attach(conn *websocket.Conn) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.conn = conn
	channels := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		channels = append(channels, ch)
	}
	c.mu.Unlock()

	for _, ch := range channels {
		if err := c.write(conn, Frame{Op: OpSubscribe, Channel: ch}); err != nil {
			c.logger.Debug("Could not subscribe to " + ch + ": " + err.Error())
		}
	}
	return true
}

func (c *Client) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-c.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// serve reads frames from conn until it fails.
func (c *Client) serve(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(c.ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(c.settings.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.write(conn, Frame{Op: OpPing}); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if c.ctx.Err() == nil {
				c.logger.Debug("Relay connection lost: " + err.Error())
			}
			return
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame Frame) {
	c.mu.Lock()
	onMessage, onPresence := c.onMessage, c.onPresence
	c.mu.Unlock()

	switch frame.Op {
	case OpMessage:
		if onMessage == nil {
			return
		}
		if err := onMessage(frame.Channel, frame.Message); err != nil {
			c.logger.Warn("Could not handle message on " + frame.Channel + ": " + err.Error())
		}
	case OpPresence:
		if onPresence != nil {
			onPresence(frame.Action, frame.UUID)
		}
	}
}
