package session

import (
	"context"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
)

// keepAlive registers the session once and then every interval until ctx ends.
// A wake request registers immediately and restarts the interval.
func (s *Session) keepAlive(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.KeepAliveInterval)
	defer ticker.Stop()

	s.notifyAlive(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			ticker.Reset(s.opts.KeepAliveInterval)
			s.notifyAlive(ctx)
		case <-ticker.C:
			s.notifyAlive(ctx)
		}
	}
}

// refreshKeepAlive asks a running keep-alive loop to register again.
func (s *Session) refreshKeepAlive() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) notifyAlive(ctx context.Context) {
	user := s.store.User()
	if user.IsAnonymous() {
		return
	}
	meta := s.store.Metadata()
	descriptor := domain.NewSessionDescriptor(meta.Name, meta.RemoteID, s.URL())
	if err := s.deps.KeepAlive.NotifyAlive(ctx, user, s.store.DeviceID(), descriptor); err != nil {
		if ctx.Err() == nil {
			s.deps.Logger.Debug("Error sending keep-alive: " + err.Error())
		}
		return
	}
	s.deps.Logger.Debug("Sent keep-alive for " + descriptor.URL)
}
