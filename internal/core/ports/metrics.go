package ports

import "time"

//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks

// Metrics records session activity.
type Metrics interface {
	// ObservePublish records an outbound message of the given type.
	ObservePublish(messageType string, bytes int, err error)
	// ObserveUpload records an out-of-band upload.
	ObserveUpload(kind string, err error)
	// ObserveResolution records a module resolution outcome.
	ObserveResolution(outcome string, duration time.Duration)
	// ObserveInbound records an inbound message or presence event.
	ObserveInbound(kind string)
	// SetDevices reports the number of connected runtimes.
	SetDevices(n int)
}
