// Package session coordinates a live push session between a local project and the runtimes on its channel.
package session

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/livepush/internal/adapters/metrics"   //nolint:depguard // Defaults for optional collaborators
	"go.trai.ch/livepush/internal/adapters/telemetry" //nolint:depguard // Defaults for optional collaborators
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/engine/encoder"
	"go.trai.ch/livepush/internal/engine/resolver"
	"go.trai.ch/livepush/internal/engine/scheduler"
	"go.trai.ch/livepush/internal/engine/state"
	"go.trai.ch/zerr"
)

const (
	// DefaultBuildPollInterval is the wait between build status checks.
	DefaultBuildPollInterval = 60 * time.Second
	// DefaultBuildTimeout bounds how long a build is polled.
	DefaultBuildTimeout = 1200 * time.Second
)

// Options describe the project a session starts with.
type Options struct {
	Files        domain.Files
	Dependencies domain.Dependencies
	Name         string
	Description  string
	SDKVersion   string
	// Channel is generated when empty.
	Channel    string
	RemoteID   string
	EntryPoint string
	User       domain.User
	DeviceID   string
	Host       string
	Verbose    bool
	Debounce   time.Duration
	// BlobURLPrefix marks file contents that are already hosted.
	BlobURLPrefix     string
	KeepAliveInterval time.Duration
	DisableKeepAlive  bool
	BuildPollInterval time.Duration
	BuildTimeout      time.Duration
	// ClientVersion is reported to runtimes with every CODE message.
	ClientVersion string
}

// Deps are the adapters a session talks to.
type Deps struct {
	Transport ports.Transport
	Blobs     ports.BlobStore
	Bundler   ports.Bundler
	Annotator ports.Annotator
	Projects  ports.ProjectService
	Builder   ports.ArtifactBuilder
	KeepAlive ports.KeepAlive
	Logger    ports.Logger
	// Tracer and Metrics are optional.
	Tracer  ports.Tracer
	Metrics ports.Metrics
}

type lifecycle int

const (
	lifecycleCreated lifecycle = iota
	lifecycleActive
	lifecycleStopped
)

// Session is the single writer of a project and the publisher of its channel.
type Session struct {
	opts    Options
	deps    Deps
	channel string

	ctx    context.Context
	cancel context.CancelFunc

	bus       *state.Bus
	store     *state.Store
	resolver  *resolver.Resolver
	encoder   *encoder.Encoder
	queue     *scheduler.Queue
	publisher *scheduler.Publisher

	mu            sync.Mutex
	lifecycle     lifecycle
	stopKeepAlive context.CancelFunc
	wake          chan struct{}
	devices       map[string]domain.Device
	wg            sync.WaitGroup
}

// New creates a session. It rejects a caller supplied channel that is too short.
func New(opts Options, deps Deps) (*Session, error) {
	if opts.Channel == "" {
		opts.Channel = domain.NewChannelID()
	}
	if err := domain.ValidateChannel(opts.Channel); err != nil {
		return nil, err
	}
	if opts.Host == "" {
		opts.Host = domain.DefaultHost
	}
	if opts.BlobURLPrefix == "" {
		opts.BlobURLPrefix = domain.DefaultBlobURLPrefix
	}
	if opts.KeepAliveInterval <= 0 {
		opts.KeepAliveInterval = domain.DefaultKeepAliveInterval
	}
	if opts.BuildPollInterval <= 0 {
		opts.BuildPollInterval = DefaultBuildPollInterval
	}
	if opts.BuildTimeout <= 0 {
		opts.BuildTimeout = DefaultBuildTimeout
	}
	if deps.Tracer == nil {
		deps.Tracer = telemetry.NewNoOpTracer()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Noop{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		opts:    opts,
		deps:    deps,
		channel: opts.Channel,
		ctx:     ctx,
		cancel:  cancel,
		bus:     state.NewBus(),
		wake:    make(chan struct{}, 1),
		devices: make(map[string]domain.Device),
	}

	s.store = state.NewStore(state.Init{
		Files:        opts.Files,
		Dependencies: opts.Dependencies,
		Name:         opts.Name,
		Description:  opts.Description,
		SDKVersion:   opts.SDKVersion,
		Channel:      opts.Channel,
		RemoteID:     opts.RemoteID,
		User:         opts.User,
		DeviceID:     opts.DeviceID,
		EntryPoint:   opts.EntryPoint,
	}, deps.Blobs, s.bus)

	s.resolver = resolver.New(deps.Bundler, deps.Annotator, deps.Logger,
		resolver.WithMetrics(deps.Metrics),
		resolver.WithVerbose(opts.Verbose),
	)
	s.encoder = encoder.New(deps.Blobs,
		encoder.WithURLPrefix(opts.BlobURLPrefix),
		encoder.WithMetrics(deps.Metrics),
	)
	s.queue = scheduler.NewQueue(func(err error) {
		deps.Logger.Debug("Dependency task failed: " + err.Error())
	})
	s.publisher = scheduler.NewPublisher(ctx, scheduler.PublisherConfig{
		Channel:       opts.Channel,
		Window:        opts.Debounce,
		Store:         s.store,
		Resolver:      s.resolver,
		Encoder:       s.encoder,
		Queue:         s.queue,
		Transport:     deps.Transport,
		Tracer:        deps.Tracer,
		Metrics:       deps.Metrics,
		Logger:        deps.Logger,
		ClientVersion: opts.ClientVersion,
		OnDependencyError: func(message string) {
			s.bus.EmitDependencyError(message)
		},
	})

	deps.Transport.OnMessage(s.handleMessage)
	deps.Transport.OnPresence(s.handlePresence)
	deps.Transport.OnStatus(s.handleStatus)

	return s, nil
}

// Start subscribes to the channel and begins keep-alive registration.
// A stopped session cannot be started again.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.lifecycle {
	case lifecycleActive:
		s.mu.Unlock()
		return domain.ErrSessionAlreadyStarted
	case lifecycleStopped:
		s.mu.Unlock()
		return domain.ErrSessionStopped
	}
	// Presence events may arrive as soon as the subscription exists.
	s.lifecycle = lifecycleActive
	s.mu.Unlock()

	if err := s.deps.Transport.Subscribe(ctx, s.channel); err != nil {
		s.mu.Lock()
		s.lifecycle = lifecycleCreated
		s.mu.Unlock()
		return zerr.With(zerr.Wrap(err, "failed to subscribe"), "channel", s.channel)
	}

	s.mu.Lock()
	// Changes made before Start are covered by the first registration.
	select {
	case <-s.wake:
	default:
	}
	if s.deps.KeepAlive != nil && !s.opts.DisableKeepAlive {
		kctx, cancel := context.WithCancel(s.ctx)
		s.stopKeepAlive = cancel
		s.wg.Add(1)
		go s.keepAlive(kctx)
	}
	s.mu.Unlock()

	s.deps.Logger.Debug("Subscribed to channel " + s.channel)
	return nil
}

// Stop unsubscribes, cancels pending work and forgets mirrored files.
// Calling Stop more than once is a no-op.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.lifecycle == lifecycleStopped {
		s.mu.Unlock()
		return nil
	}
	wasActive := s.lifecycle == lifecycleActive
	s.lifecycle = lifecycleStopped
	stopKeepAlive := s.stopKeepAlive
	s.stopKeepAlive = nil
	clear(s.devices)
	s.mu.Unlock()

	s.publisher.Stop()
	if stopKeepAlive != nil {
		stopKeepAlive()
	}

	var err error
	if wasActive {
		if uerr := s.deps.Transport.Unsubscribe(ctx, s.channel); uerr != nil {
			err = zerr.With(zerr.Wrap(uerr, "failed to unsubscribe"), "channel", s.channel)
		}
	}

	s.encoder.Reset()
	s.cancel()
	s.queue.Close()
	s.wg.Wait()
	s.deps.Metrics.SetDevices(0)
	return err
}

func (s *Session) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle == lifecycleActive
}

func (s *Session) checkNotStopped() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lifecycle == lifecycleStopped {
		return domain.ErrSessionStopped
	}
	return nil
}

// detach keeps the values of ctx but ties its lifetime to the session.
func (s *Session) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Channel returns the channel id runtimes subscribe to.
func (s *Session) Channel() string {
	return s.channel
}

// State returns a snapshot of the project.
func (s *Session) State() domain.State {
	return s.store.State()
}

// SupportsFeature reports whether the active runtime version provides feature.
func (s *Session) SupportsFeature(feature domain.Feature) bool {
	return domain.SupportsFeature(s.store.SDKVersion(), feature)
}

// URL returns the deep link that opens the session in a runtime.
func (s *Session) URL() string {
	meta := s.store.Metadata()
	return domain.ExperienceURL(s.opts.Host, meta.SDKVersion, s.channel, meta.RemoteID)
}

// Flush publishes a pending debounced change immediately. It reports whether one was pending.
func (s *Session) Flush() bool {
	return s.publisher.Flush()
}

// SetName renames the project.
func (s *Session) SetName(name string) {
	s.setField(state.FieldName, name)
}

// SetDescription changes the project description.
func (s *Session) SetDescription(description string) {
	s.setField(state.FieldDescription, description)
}

// SetSDKVersion switches the runtime version. Modules preloaded by the new version are dropped.
func (s *Session) SetSDKVersion(sdkVersion string) {
	s.setField(state.FieldSDKVersion, sdkVersion)
}

// SetUser changes the account the session acts for.
func (s *Session) SetUser(user domain.User) {
	s.setField(state.FieldUser, user)
}

// SetDeviceID changes the device the session registers for.
func (s *Session) SetDeviceID(deviceID string) {
	s.setField(state.FieldDeviceID, deviceID)
}

func (s *Session) setField(field state.Field, value any) {
	changed, err := s.store.SetMetadataField(field, value)
	if err != nil {
		s.deps.Logger.Error(err)
		return
	}
	if changed && field.AffectsKeepAlive() {
		s.refreshKeepAlive()
	}
}

// AddErrorListener is called with the errors a runtime reports. An empty slice clears them.
func (s *Session) AddErrorListener(fn func([]domain.DeviceError)) state.Subscription {
	return s.bus.Errors.Add(fn)
}

// AddLogListener is called for every console call on a runtime.
func (s *Session) AddLogListener(fn func(domain.DeviceLog)) state.Subscription {
	return s.bus.Logs.Add(fn)
}

// AddPresenceListener is called when a runtime joins or leaves.
func (s *Session) AddPresenceListener(fn func(domain.PresenceEvent)) state.Subscription {
	return s.bus.Presence.Add(fn)
}

// AddStateListener is called after every observable change of the project.
func (s *Session) AddStateListener(fn func(domain.State)) state.Subscription {
	return s.bus.State.Add(fn)
}

// SetDependencyErrorListener replaces the listener for failed module installs.
func (s *Session) SetDependencyErrorListener(fn func(message string)) {
	s.bus.SetDependencyErrorListener(fn)
}
