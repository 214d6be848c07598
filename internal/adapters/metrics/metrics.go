// Package metrics records session activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "livepush"

// Recorder implements ports.Metrics on a Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	publishesTotal     *prometheus.CounterVec
	publishBytes       *prometheus.HistogramVec
	uploadsTotal       *prometheus.CounterVec
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	inboundTotal       *prometheus.CounterVec
	devices            prometheus.Gauge
}

var _ ports.Metrics = (*Recorder)(nil)

// NewRecorder registers the session metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		publishesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publishes_total",
				Help:      "Total number of messages published to the channel",
			},
			[]string{"type", "status"},
		),
		publishBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "publish_payload_bytes",
				Help:      "Estimated size of published messages in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 2, 8),
			},
			[]string{"type"},
		),
		uploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "blob_uploads_total",
				Help:      "Total number of out-of-band uploads",
			},
			[]string{"kind", "status"},
		),
		resolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dependency_resolutions_total",
				Help:      "Total number of module resolutions by outcome",
			},
			[]string{"outcome"},
		),
		resolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dependency_resolution_duration_seconds",
				Help:      "Time to resolve a module with the bundling service",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 150},
			},
			[]string{"outcome"},
		),
		inboundTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inbound_events_total",
				Help:      "Total number of messages and presence events received from runtimes",
			},
			[]string{"kind"},
		),
		devices: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "connected_devices",
				Help:      "Number of runtimes currently joined to the channel",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObservePublish records an outbound message of the given type.
func (r *Recorder) ObservePublish(messageType string, bytes int, err error) {
	r.publishesTotal.WithLabelValues(messageType, status(err)).Inc()
	if err == nil {
		r.publishBytes.WithLabelValues(messageType).Observe(float64(bytes))
	}
}

// ObserveUpload records an out-of-band upload.
func (r *Recorder) ObserveUpload(kind string, err error) {
	r.uploadsTotal.WithLabelValues(kind, status(err)).Inc()
}

// ObserveResolution records a module resolution outcome.
func (r *Recorder) ObserveResolution(outcome string, duration time.Duration) {
	r.resolutionsTotal.WithLabelValues(outcome).Inc()
	r.resolutionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveInbound records an inbound message or presence event.
func (r *Recorder) ObserveInbound(kind string) {
	r.inboundTotal.WithLabelValues(kind).Inc()
}

// SetDevices reports the number of connected runtimes.
func (r *Recorder) SetDevices(n int) {
	r.devices.Set(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen for metrics"), "addr", addr)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, "metrics server failed")
	}
	return nil
}
