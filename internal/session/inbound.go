package session

import (
	"encoding/json"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/zerr"
)

// handleMessage routes a runtime message. Returned errors are reported by the transport.
func (s *Session) handleMessage(_ string, raw json.RawMessage) error {
	if !s.isActive() {
		return nil
	}

	var msg domain.InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to decode runtime message"), "channel", s.channel)
	}
	s.deps.Metrics.ObserveInbound(msg.Type)

	switch msg.Type {
	case domain.MessageTypeConsole:
		s.bus.Logs.Emit(domain.NewDeviceLog(msg.Device, msg.Method, msg.Payload))
	case domain.MessageTypeError:
		errs, err := domain.DecodeDeviceErrors(msg.Device, msg.Error)
		if err != nil {
			return err
		}
		s.bus.Errors.Emit(errs)
	case domain.MessageTypeResendCode:
		return s.publisher.PublishNow(s.ctx)
	case domain.MessageTypeStatusReport:
		return s.forwardStatusReport(msg)
	}
	return nil
}

func (s *Session) forwardStatusReport(msg domain.InboundMessage) error {
	remoteID := s.store.Metadata().RemoteID
	if remoteID == "" {
		s.deps.Logger.Debug("Ignoring status report for an unsaved project")
		return nil
	}
	return s.deps.Projects.UpdateMetadata(s.ctx, remoteID, msg.PreviewLocation, msg.Status)
}

// handlePresence tracks runtimes joining and leaving. Peers whose uuid is not a device are ignored.
func (s *Session) handlePresence(action domain.PresenceAction, uuid string) {
	if !s.isActive() {
		return
	}

	var device domain.Device
	if err := json.Unmarshal([]byte(uuid), &device); err != nil {
		return
	}
	s.deps.Metrics.ObserveInbound("presence_" + string(action))

	switch action {
	case domain.PresenceActionJoin:
		s.setDevice(device, true)
		if err := s.publisher.PublishNow(s.ctx); err != nil && s.ctx.Err() == nil {
			s.deps.Logger.Error(err)
		}
		s.bus.Presence.Emit(domain.PresenceEvent{Device: device, Status: domain.PresenceJoin})
	case domain.PresenceActionLeave, domain.PresenceActionTimeout:
		s.setDevice(device, false)
		s.bus.Presence.Emit(domain.PresenceEvent{Device: device, Status: domain.PresenceLeave})
	}
}

func (s *Session) setDevice(device domain.Device, present bool) {
	s.mu.Lock()
	if present {
		s.devices[device.ID] = device
	} else {
		delete(s.devices, device.ID)
	}
	n := len(s.devices)
	s.mu.Unlock()
	s.deps.Metrics.SetDevices(n)
}

// handleStatus reacts to connectivity changes. Subscriptions are renewed when the network comes back.
func (s *Session) handleStatus(status domain.ConnectivityStatus) {
	if !s.isActive() {
		return
	}

	switch status {
	case domain.StatusNetworkDown, domain.StatusNetworkIssues:
		s.deps.Logger.Debug("Lost network connection.")
	case domain.StatusReconnected:
		s.deps.Logger.Debug("Reconnected to the relay.")
	case domain.StatusNetworkUp:
		s.deps.Logger.Debug("Detected network connection. Subscribing to channel.")
		if err := s.deps.Transport.Subscribe(s.ctx, s.channel); err != nil {
			s.deps.Logger.Error(zerr.With(zerr.Wrap(err, "failed to resubscribe"), "channel", s.channel))
		}
	}
}
