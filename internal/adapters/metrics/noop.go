package metrics

import (
	"time"

	"go.trai.ch/livepush/internal/core/ports"
)

// Noop discards all observations. It is used when no metrics address is configured.
type Noop struct{}

var _ ports.Metrics = Noop{}

// ObservePublish does nothing.
func (Noop) ObservePublish(string, int, error) {}

// ObserveUpload does nothing.
func (Noop) ObserveUpload(string, error) {}

// ObserveResolution does nothing.
func (Noop) ObserveResolution(string, time.Duration) {}

// ObserveInbound does nothing.
func (Noop) ObserveInbound(string) {}

// SetDevices does nothing.
func (Noop) SetDevices(int) {}
