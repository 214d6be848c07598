package app

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"go.trai.ch/livepush/internal/adapters/history"
	"go.trai.ch/livepush/internal/adapters/linear"
	"go.trai.ch/livepush/internal/core/domain"
)

// SaveOptions configuration for the Save method.
type SaveOptions struct {
	Draft bool
}

// Save stores the project in dir remotely, records it in the local history and prints its URL.
func (a *App) Save(ctx context.Context, dir string, opts SaveOptions) error {
	return a.once(ctx, dir, func(ctx context.Context, cfg *domain.Config, p *project) error {
		save := p.session.Save
		if opts.Draft {
			save = p.session.SaveDraft
		}
		result, err := save(ctx)
		if err != nil {
			return err
		}

		st := p.session.State()
		entry := domain.HistoryEntry{
			ID:          result.ID,
			URL:         result.URL,
			Name:        st.Name,
			SDKVersion:  st.SDKVersion,
			Channel:     p.session.Channel(),
			ContentHash: history.ContentHash(st.Files),
			Draft:       opts.Draft,
			SavedAt:     time.Now(),
		}
		if err := a.factories.History(cfg.Root).Record(entry); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(a.stdout, result.URL)
		return nil
	})
}

// URL prints the experience URL runtimes open to join the project's channel.
func (a *App) URL(ctx context.Context, dir string) error {
	cfg, err := a.loadConfig(dir)
	if err != nil {
		return err
	}
	if cfg.Channel == "" {
		a.logger.Warn("No channel is configured, the URL changes on every start")
	}

	p, _, err := a.open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.stdout, p.session.URL())
	return p.close(ctx)
}

// Build builds an Android artifact of the project in dir and prints its URL.
func (a *App) Build(ctx context.Context, dir string) error {
	return a.once(ctx, dir, func(ctx context.Context, _ *domain.Config, p *project) error {
		url, err := p.session.BuildAPK(ctx, p.session.GenerateAppJSON())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(a.stdout, url)
		return nil
	})
}

// Download saves the project in dir and prints where its archive can be downloaded.
func (a *App) Download(ctx context.Context, dir string) error {
	return a.once(ctx, dir, func(ctx context.Context, _ *domain.Config, p *project) error {
		url, err := p.session.Download(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(a.stdout, url)
		return nil
	})
}

// History prints the saves recorded for the project in dir, newest first.
func (a *App) History(_ context.Context, dir string) error {
	cfg, err := a.loadConfig(dir)
	if err != nil {
		return err
	}
	entries, err := a.factories.History(cfg.Root).List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.logger.Info("No saves recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SAVED\tID\tSDK\tCHANNEL\tURL")
	for _, e := range entries {
		id := e.ID
		if e.Draft {
			id += " (draft)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.SavedAt.Local().Format(time.DateTime), id, e.SDKVersion, e.Channel, e.URL)
	}
	return w.Flush()
}

// once opens the project in dir, pushes its files and runs fn without subscribing to the channel.
// Activities are reported on stderr.
func (a *App) once(
	ctx context.Context,
	dir string,
	fn func(ctx context.Context, cfg *domain.Config, p *project) error,
) (err error) {
	cfg, err := a.loadConfig(dir)
	if err != nil {
		return err
	}

	tracer := a.factories.Tracer(linear.NewRenderer(a.stderr, a.stderr))
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	p, files, err := a.open(ctx, cfg, tracer)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, p.close(ctx))
	}()

	if err := p.push(ctx, files); err != nil {
		return err
	}
	return fn(ctx, cfg, p)
}
