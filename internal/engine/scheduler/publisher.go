package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/engine/encoder"
	"go.trai.ch/livepush/internal/engine/resolver"
	"go.trai.ch/livepush/internal/engine/state"
	"go.trai.ch/zerr"
)

// PublisherConfig holds the collaborators of a Publisher.
type PublisherConfig struct {
	Channel   string
	Window    time.Duration
	Store     *state.Store
	Resolver  *resolver.Resolver
	Encoder   *encoder.Encoder
	Queue     *Queue
	Transport ports.Transport
	Tracer    ports.Tracer
	Metrics   ports.Metrics
	Logger    ports.Logger
	// ClientVersion is reported to runtimes as webSnackSdkVersion.
	ClientVersion string
	// OnDependencyError receives modules that imports refer to but that could not be resolved.
	OnDependencyError func(message string)
}

// Publisher sends the project to the channel.
// Triggers are debounced, and immediate publishes run the same pipeline.
type Publisher struct {
	ctx       context.Context
	cfg       PublisherConfig
	debouncer *Debouncer

	// sendMu keeps outbound messages in the order their payloads were built.
	sendMu sync.Mutex
}

// NewPublisher creates a publisher whose debounced publishes run with ctx.
func NewPublisher(ctx context.Context, cfg PublisherConfig) *Publisher {
	p := &Publisher{
		ctx: ctx,
		cfg: cfg,
	}
	p.debouncer = NewDebouncer(ClampWindow(cfg.Window), func() {
		if err := p.PublishNow(p.ctx); err != nil && p.ctx.Err() == nil {
			p.cfg.Logger.Error(err)
		}
	})
	return p
}

// Trigger schedules a publish once the debounce window passes without another trigger.
func (p *Publisher) Trigger() {
	p.debouncer.Trigger()
}

// Flush runs a pending publish now. It reports whether one was pending.
func (p *Publisher) Flush() bool {
	return p.debouncer.Flush()
}

// Stop cancels a pending publish and ignores later triggers.
func (p *Publisher) Stop() {
	p.debouncer.Stop()
}

// PublishNow runs the pre-publish pipeline and sends a CODE message.
// While a loading message is set, or dependencies are still being resolved or
// installed, it sends the loading message instead when there is one.
func (p *Publisher) PublishNow(ctx context.Context) error {
	if p.cfg.Store.LoadingMessage() != "" {
		return p.PublishLoading(ctx)
	}

	ctx, span := p.cfg.Tracer.Start(ctx, "publish", ports.WithAttribute("channel", p.cfg.Channel))
	defer span.End()

	sdkVersion := p.cfg.Store.SDKVersion()
	if domain.RequiresClientResolution(sdkVersion) {
		hooks, done := p.resolutionHooks(ctx)
		err := p.cfg.Resolver.Reconcile(ctx, p.cfg.Store, hooks)
		done()
		if err != nil && !errors.Is(err, domain.ErrResolutionInProgress) {
			span.RecordError(err)
			return err
		}
	}

	if p.cfg.Resolver.Busy() || p.cfg.Queue.Busy() {
		p.cfg.Logger.Debug("Skipping publish while dependencies are resolving")
		return p.PublishLoading(ctx)
	}

	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	files := p.cfg.Store.Files()
	payload, err := p.cfg.Encoder.Encode(ctx, p.cfg.Channel, files)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttribute("files", len(files))
	span.SetAttribute("size", payload.Size)

	msg := domain.NewCodeMessage(payload.Diff, payload.S3URL, p.cfg.Store.Dependencies(),
		domain.NewAnalyticsMetadata(sdkVersion, p.cfg.ClientVersion))
	if err := p.send(ctx, domain.MessageTypeCode, msg); err != nil {
		span.RecordError(err)
		return err
	}
	p.cfg.Logger.Debug("Published successfully!")
	return nil
}

// resolutionHooks announce a reconcile pass to runtimes and report its failures.
// done clears the loading message the pass set, unless something replaced it since.
func (p *Publisher) resolutionHooks(ctx context.Context) (hooks resolver.Hooks, done func()) {
	var announced string
	hooks = resolver.Hooks{
		OnProgress: func(modules []string) {
			announced = "Resolving module: " + strings.Join(modules, ", ")
			p.cfg.Logger.Debug(announced)
			p.SetLoadingMessage(ctx, announced)
		},
		OnFailure: func(name, version string, err error) {
			if p.cfg.OnDependencyError != nil {
				p.cfg.OnDependencyError(domain.DependencyErrorMessage(name, version, err))
			}
		},
	}
	done = func() {
		if announced != "" && p.cfg.Store.LoadingMessage() == announced {
			p.SetLoadingMessage(ctx, "")
		}
	}
	return hooks, done
}

// PublishLoading sends the current loading message. An empty message is not sent.
func (p *Publisher) PublishLoading(ctx context.Context) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	message := p.cfg.Store.LoadingMessage()
	if message == "" {
		return nil
	}
	err := p.send(ctx, domain.MessageTypeLoading, domain.LoadingMessage{
		Type:    domain.MessageTypeLoading,
		Message: message,
	})
	if err != nil {
		return err
	}
	p.cfg.Logger.Debug("Sent loading event with message: " + message)
	return nil
}

// SetLoadingMessage updates the loading text and sends it right away when it changed.
func (p *Publisher) SetLoadingMessage(ctx context.Context, message string) {
	if !p.cfg.Store.SetLoadingMessage(message) {
		return
	}
	if err := p.PublishLoading(ctx); err != nil {
		p.cfg.Logger.Error(err)
	}
}

// RequestStatus asks every runtime to report its preview status.
func (p *Publisher) RequestStatus(ctx context.Context) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	err := p.send(ctx, domain.MessageTypeRequestStatus, domain.RequestStatusMessage{
		Type: domain.MessageTypeRequestStatus,
	})
	if err != nil {
		return err
	}
	p.cfg.Logger.Debug("Requested Status")
	return nil
}

func (p *Publisher) send(ctx context.Context, messageType string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode message"), "type", messageType)
	}
	err = p.cfg.Transport.Publish(ctx, p.cfg.Channel, json.RawMessage(body))
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.ObservePublish(messageType, len(body), err)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, "Error publishing "+messageType), "channel", p.cfg.Channel)
	}
	return nil
}
