package transport

import (
	"errors"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

const peerSendBuffer = 64

// Hub is a pub/sub relay. Members of a channel receive each other's messages and presence.
type Hub struct {
	settings Settings
	logger   ports.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	peers    map[*peer]struct{}
	channels map[string]map[*peer]struct{}
}

type peer struct {
	uuid     string
	conn     *websocket.Conn
	send     chan Frame
	channels map[string]struct{}
	once     sync.Once
	done     chan struct{}
}

// NewHub creates an empty relay.
func NewHub(settings Settings, logger ports.Logger) *Hub {
	return &Hub{
		settings: settings,
		logger:   logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: settings.HandshakeTimeout,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
		peers:    make(map[*peer]struct{}),
		channels: make(map[string]map[*peer]struct{}),
	}
}

// CloseAll disconnects every peer. Peers see a leave for everyone else.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		_ = p.conn.Close()
	}
}

// Members returns the presence identities subscribed to channel, sorted.
func (h *Hub) Members(channel string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := make([]string, 0, len(h.channels[channel]))
	for p := range h.channels[channel] {
		members = append(members, p.uuid)
	}
	slices.Sort(members)
	return members
}

// ServeHTTP upgrades the request and serves the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("Rejected relay connection: " + err.Error())
		return
	}

	id := r.URL.Query().Get(UUIDParam)
	if id == "" {
		id = uuid.NewString()
	}
	p := &peer{
		uuid:     id,
		conn:     conn,
		send:     make(chan Frame, peerSendBuffer),
		channels: make(map[string]struct{}),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(p)
	action := h.readLoop(p)
	h.disconnect(p, action)
}

// readLoop handles frames from p. It returns the presence action that ends the membership.
func (h *Hub) readLoop(p *peer) domain.PresenceAction {
	for {
		_ = p.conn.SetReadDeadline(time.Now().Add(h.settings.ReadTimeout))
		var frame Frame
		if err := p.conn.ReadJSON(&frame); err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return domain.PresenceActionTimeout
			}
			return domain.PresenceActionLeave
		}

		switch frame.Op {
		case OpSubscribe:
			h.subscribe(p, frame.Channel)
		case OpUnsubscribe:
			h.unsubscribe(p, frame.Channel, domain.PresenceActionLeave)
		case OpPublish:
			h.publish(p, frame.Channel, frame.Message)
		case OpPing:
		default:
			h.logger.Debug("Ignoring relay frame: " + string(frame.Op))
		}
	}
}

func (h *Hub) writeLoop(p *peer) {
	for {
		select {
		case <-p.done:
			return
		case frame := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(h.settings.WriteTimeout))
			if err := p.conn.WriteJSON(frame); err != nil {
				_ = p.conn.Close()
				return
			}
		}
	}
}

// deliver queues frame for p. Slow peers drop frames rather than stall the channel.
func (h *Hub) deliver(p *peer, frame Frame) {
	select {
	case p.send <- frame:
	default:
		h.logger.Debug("Dropping frame for slow relay peer " + p.uuid)
	}
}

func (h *Hub) subscribe(p *peer, channel string) {
	if channel == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.channels[channel]
	if !ok {
		members = make(map[*peer]struct{})
		h.channels[channel] = members
	}
	if _, already := members[p]; already {
		return
	}

	for other := range members {
		h.deliver(other, Frame{Op: OpPresence, Channel: channel, Action: domain.PresenceActionJoin, UUID: p.uuid})
		h.deliver(p, Frame{Op: OpPresence, Channel: channel, Action: domain.PresenceActionJoin, UUID: other.uuid})
	}
	members[p] = struct{}{}
	p.channels[channel] = struct{}{}
}

func (h *Hub) unsubscribe(p *peer, channel string, action domain.PresenceAction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(p, channel, action)
}

func (h *Hub) removeLocked(p *peer, channel string, action domain.PresenceAction) {
	members, ok := h.channels[channel]
	if !ok {
		return
	}
	if _, member := members[p]; !member {
		return
	}
	delete(members, p)
	delete(p.channels, channel)
	if len(members) == 0 {
		delete(h.channels, channel)
		return
	}
	for other := range members {
		h.deliver(other, Frame{Op: OpPresence, Channel: channel, Action: action, UUID: p.uuid})
	}
}

func (h *Hub) publish(p *peer, channel string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.channels[channel]
	if _, member := members[p]; !member {
		return
	}
	for other := range members {
		if other != p {
			h.deliver(other, Frame{Op: OpMessage, Channel: channel, Message: message, UUID: p.uuid})
		}
	}
}

func (h *Hub) disconnect(p *peer, action domain.PresenceAction) {
	h.mu.Lock()
	for channel := range p.channels {
		h.removeLocked(p, channel, action)
	}
	delete(h.peers, p)
	h.mu.Unlock()

	p.once.Do(func() { close(p.done) })
	_ = p.conn.Close()
}
