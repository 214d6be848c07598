// Package app implements the application layer for livepush.
package app

import (
	"context"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/livepush/internal/adapters/blob"
	"go.trai.ch/livepush/internal/adapters/bundler"
	"go.trai.ch/livepush/internal/adapters/detector"
	"go.trai.ch/livepush/internal/adapters/history"
	"go.trai.ch/livepush/internal/adapters/linear"
	"go.trai.ch/livepush/internal/adapters/metrics"
	"go.trai.ch/livepush/internal/adapters/telemetry"
	"go.trai.ch/livepush/internal/adapters/transport"
	"go.trai.ch/livepush/internal/adapters/tui"
	"go.trai.ch/livepush/internal/adapters/watcher"
	"go.trai.ch/livepush/internal/build"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/session"
	"go.trai.ch/zerr"
)

// stopTimeout bounds how long a session may take to unsubscribe on shutdown.
const stopTimeout = 5 * time.Second

// Remote is the project API a session saves, builds and registers through.
type Remote interface {
	ports.ProjectService
	ports.ArtifactBuilder
	ports.KeepAlive
}

// Factories builds the adapters that depend on a loaded configuration.
type Factories struct {
	Remote    func(cfg *domain.Config) Remote
	Blobs     blob.Factory
	Bundler   bundler.Factory
	Transport transport.Factory
	Watcher   watcher.Factory
	History   history.Factory
	Tracer    telemetry.Factory
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	reader       ports.ProjectReader
	annotator    ports.Annotator
	recorder     *metrics.Recorder
	factories    Factories
	stdout       io.Writer
	stderr       io.Writer
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	reader ports.ProjectReader,
	annotator ports.Annotator,
	recorder *metrics.Recorder,
	factories Factories,
) *App {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	return &App{
		configLoader: loader,
		logger:       log,
		reader:       reader,
		annotator:    annotator,
		recorder:     recorder,
		factories:    factories,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput redirects what commands print.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// verboseLogger is implemented by loggers whose level follows the configuration.
type verboseLogger interface {
	SetVerbose(verbose bool)
}

type jsonLogger interface {
	SetJSON(enable bool)
}

// LogOptions configures log output from the command line.
type LogOptions struct {
	JSON    bool
	Verbose bool
}

// SetLogOptions applies opts to loggers that support them.
func (a *App) SetLogOptions(opts LogOptions) {
	if l, ok := a.logger.(jsonLogger); ok && opts.JSON {
		l.SetJSON(true)
	}
	if l, ok := a.logger.(verboseLogger); ok && opts.Verbose {
		l.SetVerbose(true)
	}
}

// loadConfig resolves the configuration for dir and applies its verbosity to the logger.
func (a *App) loadConfig(dir string) (*domain.Config, error) {
	if dir == "" {
		dir = "."
	}
	cfg, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if v, ok := a.logger.(verboseLogger); ok && cfg.Verbose {
		v.SetVerbose(true)
	}
	return cfg, nil
}

// open reads the project under cfg.Root and creates an unstarted session for it.
// The session's files are pushed by the caller.
func (a *App) open(ctx context.Context, cfg *domain.Config, tracer ports.Tracer) (*project, domain.Files, error) {
	files, err := a.reader.Read(cfg.Root, cfg.Ignore)
	if err != nil {
		return nil, nil, err
	}

	blobs, err := a.factories.Blobs(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	remote := a.factories.Remote(cfg)
	tr := a.factories.Transport(cfg)
	s, err := session.New(session.Options{
		Name:              cfg.Name,
		Description:       cfg.Description,
		SDKVersion:        cfg.SDKVersion,
		Channel:           cfg.Channel,
		RemoteID:          a.lastSaveID(cfg),
		EntryPoint:        cfg.Entry,
		User:              cfg.User,
		DeviceID:          cfg.DeviceID,
		Host:              cfg.Host,
		Verbose:           cfg.Verbose,
		Debounce:          cfg.Debounce,
		BlobURLPrefix:     cfg.Blob.URLPrefix,
		KeepAliveInterval: cfg.KeepAlive.Interval,
		DisableKeepAlive:  cfg.KeepAlive.Disabled,
		ClientVersion:     build.Version,
	}, session.Deps{
		Transport: tr,
		Blobs:     blobs,
		Bundler:   a.factories.Bundler(cfg),
		Annotator: a.annotator,
		Projects:  remote,
		Builder:   remote,
		KeepAlive: remote,
		Logger:    a.logger,
		Tracer:    tracer,
		Metrics:   a.recorder,
	})
	if err != nil {
		_ = tr.Close()
		return nil, nil, err
	}
	return newProject(s, tr, a.logger), files, nil
}

// lastSaveID returns the id of the latest save made on the configured channel.
// Sessions on a random channel start unsaved.
func (a *App) lastSaveID(cfg *domain.Config) string {
	if cfg.Channel == "" {
		return ""
	}
	entries, err := a.factories.History(cfg.Root).List()
	if err != nil {
		a.logger.Debug("Ignoring unreadable save history: " + err.Error())
		return ""
	}
	for _, e := range entries {
		if e.Channel == cfg.Channel && !e.Draft {
			return e.ID
		}
	}
	return ""
}

// newRenderer returns the renderer for mode.
func (a *App) newRenderer(mode domain.OutputMode) ports.Renderer {
	if mode == domain.OutputTUI {
		return tui.NewRenderer(tui.NewModel(), a.teaOptions...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}

// outputMode resolves the flag against the configured mode and the environment.
func outputMode(cfg *domain.Config, flag string) domain.OutputMode {
	if flag == "" || flag == string(domain.OutputAuto) {
		flag = string(cfg.Output)
	}
	return detector.ResolveMode(detector.DetectEnvironment(), flag)
}
