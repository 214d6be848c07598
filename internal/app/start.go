package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/livepush/internal/adapters/watcher"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// StartOptions configuration for the Start method.
type StartOptions struct {
	OutputMode string
	Channel    string
}

// Start pushes the project in dir to its channel and keeps pushing as files change.
// It returns when ctx is done or the interactive renderer quits.
func (a *App) Start(ctx context.Context, dir string, opts StartOptions) error {
	// 1. Load the configuration
	cfg, err := a.loadConfig(dir)
	if err != nil {
		return err
	}
	if opts.Channel != "" {
		cfg.Channel = opts.Channel
	}

	// 2. Initialize Renderer
	mode := outputMode(cfg, opts.OutputMode)
	renderer := a.newRenderer(mode)

	// 3. Initialize Telemetry
	// Spans are forwarded to the renderer as activities.
	tracer := a.factories.Tracer(renderer)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	// 4. Open the session
	p, files, err := a.open(ctx, cfg, tracer)
	if err != nil {
		return err
	}
	p.session.AddPresenceListener(renderer.OnPresence)
	p.session.AddLogListener(renderer.OnDeviceLog)
	p.session.AddErrorListener(renderer.OnDeviceErrors)
	p.session.SetDependencyErrorListener(a.logger.Warn)

	// 5. Run Renderer, Session and Metrics concurrently
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		err := renderer.Wait()
		// Quitting the TUI ends the session.
		if mode == domain.OutputTUI {
			stop()
		}
		return err
	})

	g.Go(func() (err error) {
		defer func() {
			err = errors.Join(err, p.close(gctx))
			_ = renderer.Stop()
			stop()
		}()
		return a.live(gctx, cfg, p, files, renderer)
	})

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return a.recorder.Serve(gctx, cfg.MetricsAddr)
		})
	}

	return g.Wait()
}

// live subscribes the session and pushes every batch of file changes until ctx is done.
func (a *App) live(ctx context.Context, cfg *domain.Config, p *project, files domain.Files, renderer ports.Renderer) error {
	if err := p.session.Start(ctx); err != nil {
		return err
	}
	renderer.OnSessionStart(sessionInfo(p, cfg))

	if err := p.push(ctx, files); err != nil {
		return err
	}

	w, err := a.factories.Watcher(cfg.Ignore)
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()
	if err := w.Start(ctx, cfg.Root); err != nil {
		return err
	}

	batcher := watcher.NewBatcher(watcher.DefaultBatchWindow, func(paths []string) {
		if ctx.Err() != nil {
			return
		}
		a.logger.Debug(fmt.Sprintf("%d files changed", len(paths)))
		files, err := a.reader.Read(cfg.Root, cfg.Ignore)
		if err != nil {
			a.logger.Error(err)
			return
		}
		if err := p.push(ctx, files); err != nil {
			a.logger.Error(err)
		}
	})

	// Events ends once ctx is done.
	for event := range w.Events() {
		batcher.Add(event.Path)
	}
	return nil
}

func sessionInfo(p *project, cfg *domain.Config) ports.SessionInfo {
	st := p.session.State()
	return ports.SessionInfo{
		Name:       st.Name,
		Channel:    p.session.Channel(),
		SDKVersion: st.SDKVersion,
		URL:        p.session.URL(),
		User:       cfg.User.Username(),
	}
}
