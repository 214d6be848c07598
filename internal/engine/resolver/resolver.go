// Package resolver discovers imported modules and resolves them against the bundling service.
package resolver

import (
	"context"
	"maps"
	"path"
	"slices"
	"sync"
	"sync/atomic"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/retry"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// fetchConcurrency bounds parallel bundle requests in one pass.
const fetchConcurrency = 8

var scannableExts = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}

// Workspace is the project state a reconcile pass reads and writes.
type Workspace interface {
	// ResolutionInput returns the files, dependencies and runtime version tagged with the file revision.
	ResolutionInput() (domain.Files, domain.Dependencies, string, uint64)
	// CommitResolution applies a pass computed at revision and reports false if the files moved on.
	CommitResolution(revision uint64, added domain.Dependencies, rewrites map[string]string) bool
	// BeginResolving flags the project as resolving until the returned func is called.
	BeginResolving() (end func())
}

// Resolver turns module requests into dependency entries.
type Resolver struct {
	bundler   ports.Bundler
	annotator ports.Annotator
	logger    ports.Logger
	metrics   ports.Metrics
	poll      retry.Config
	verbose   bool

	group singleflight.Group
	mu    sync.Mutex
	memo  map[string]*domain.Bundle

	busy atomic.Bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPolling overrides how pending bundles are polled.
func WithPolling(cfg retry.Config) Option {
	return func(r *Resolver) {
		r.poll = cfg
	}
}

// WithMetrics records resolution outcomes.
func WithMetrics(m ports.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithVerbose reports scan failures as warnings.
func WithVerbose(verbose bool) Option {
	return func(r *Resolver) {
		r.verbose = verbose
	}
}

// New creates a Resolver.
func New(bundler ports.Bundler, annotator ports.Annotator, logger ports.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		bundler:   bundler,
		annotator: annotator,
		logger:    logger,
		poll:      retry.Fixed(PendingPollInterval, PendingPollAttempts),
		memo:      make(map[string]*domain.Bundle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Busy reports whether a reconcile pass is running.
func (r *Resolver) Busy() bool {
	return r.busy.Load()
}

// Scan collects imported modules across the code files.
// When two files pin the same module differently the first file in path order wins.
func (r *Resolver) Scan(files domain.Files) map[string]string {
	modules := make(map[string]string)
	for _, p := range files.Paths() {
		f := files[p]
		if f.Type != domain.FileTypeCode || !slices.Contains(scannableExts, path.Ext(p)) {
			continue
		}
		found, err := r.annotator.Scan(f.Contents)
		if err != nil {
			if r.verbose {
				r.logger.Warn("Error parsing dependencies in " + p + ": " + err.Error())
			}
			continue
		}
		for spec, pin := range found {
			if cur, ok := modules[spec]; !ok || (cur == "" && pin != "") {
				modules[spec] = pin
			}
		}
	}
	return modules
}

// InstallRequest asks for a module and its peers to be added to a dependency map.
type InstallRequest struct {
	Name       string
	Version    string
	Existing   domain.Dependencies
	SDKVersion string
	// OnProgress is called before each module request with "name" or "name@version".
	OnProgress func(module string)
}

// Install resolves a module with one level of peer dependencies.
// It returns Existing extended with the results. Peers already present or preloaded are skipped,
// and the requested module overrides a peer of the same name.
func (r *Resolver) Install(ctx context.Context, req InstallRequest) (domain.Dependencies, error) {
	r.progress(req.OnProgress, req.Name, req.Version)
	bundle, err := r.Fetch(ctx, req.Name, req.Version)
	if err != nil {
		return nil, err
	}

	result := req.Existing.Clone()
	top := entryFor(req.Name, bundle, req.Version)

	peers := make(domain.Dependencies)
	for _, peer := range slices.Sorted(maps.Keys(bundle.Dependencies)) {
		if peer == top.name || domain.IsModulePreloaded(peer, req.SDKVersion) {
			continue
		}
		if _, ok := result[peer]; ok {
			continue
		}
		version := bundle.Dependencies[peer]
		r.progress(req.OnProgress, peer, version)
		peerBundle, err := r.Fetch(ctx, peer, version)
		if err != nil {
			return nil, zerr.With(err, "peer_of", req.Name)
		}
		p := entryFor(peer, peerBundle, version)
		peers[p.name] = p.dep
	}

	maps.Copy(result, peers)
	result[top.name] = top.dep
	return result, nil
}

func (r *Resolver) progress(fn func(string), name, version string) {
	if fn != nil {
		fn(moduleLabel(name, version))
	}
}

func moduleLabel(name, version string) string {
	if version == "" {
		return name
	}
	return name + "@" + version
}

// ResolveAll resolves modules in parallel with one level of peer expansion.
// It returns the new entries and the failure of each module that could not be resolved.
func (r *Resolver) ResolveAll(ctx context.Context, modules map[string]string, existing domain.Dependencies, sdkVersion string) (domain.Dependencies, map[string]error) {
	var mu sync.Mutex
	top := make(domain.Dependencies)
	peerRanges := make(map[string]string)
	failures := make(map[string]error)

	fetchAll := func(requests map[string]string, record func(name, version string, b *domain.Bundle)) {
		g, groupCtx := errgroup.WithContext(ctx)
		g.SetLimit(fetchConcurrency)
		for name, version := range requests {
			g.Go(func() error {
				bundle, err := r.Fetch(groupCtx, name, version)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures[name] = err
					return nil
				}
				record(name, version, bundle)
				return nil
			})
		}
		_ = g.Wait()
	}

	fetchAll(modules, func(name, version string, b *domain.Bundle) {
		e := entryFor(name, b, version)
		top[e.name] = e.dep
		for peer, rng := range b.Dependencies {
			if _, ok := peerRanges[peer]; !ok {
				peerRanges[peer] = rng
			}
		}
	})

	wanted := make(map[string]string)
	for peer, rng := range peerRanges {
		_, present := existing[peer]
		_, requested := top[peer]
		if present || requested || domain.IsModulePreloaded(peer, sdkVersion) {
			continue
		}
		wanted[peer] = rng
	}

	peers := make(domain.Dependencies)
	fetchAll(wanted, func(name, version string, b *domain.Bundle) {
		e := entryFor(name, b, version)
		peers[e.name] = e.dep
	})

	maps.Copy(peers, top)
	return peers, failures
}

// Hooks observe reconcile passes. Either func may be nil.
type Hooks struct {
	// OnProgress is called before a pass requests modules, with "name" or "name@version" labels in name order.
	OnProgress func(modules []string)
	// OnFailure is called for each module a pass could not resolve.
	OnFailure func(name, version string, err error)
}

// Reconcile runs resolution passes until one completes against unchanged files.
// Only one pass runs at a time. A concurrent call returns ErrResolutionInProgress.
func (r *Resolver) Reconcile(ctx context.Context, ws Workspace, hooks Hooks) error {
	if !r.busy.CompareAndSwap(false, true) {
		return domain.ErrResolutionInProgress
	}
	defer r.busy.Store(false)

	end := ws.BeginResolving()
	defer end()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		files, deps, sdkVersion, revision := ws.ResolutionInput()
		pending := r.missing(r.Scan(files), deps, sdkVersion)

		if len(pending) > 0 && hooks.OnProgress != nil {
			labels := make([]string, 0, len(pending))
			for _, name := range slices.Sorted(maps.Keys(pending)) {
				labels = append(labels, moduleLabel(name, pending[name]))
			}
			hooks.OnProgress(labels)
		}

		added, failures := r.ResolveAll(ctx, pending, deps, sdkVersion)
		for _, name := range slices.Sorted(maps.Keys(failures)) {
			r.logger.Debug("Error resolving module " + name + ": " + failures[name].Error())
			if hooks.OnFailure != nil {
				hooks.OnFailure(name, pending[name], failures[name])
			}
		}

		var rewrites map[string]string
		if domain.UsesVersionComments(sdkVersion) {
			merged := deps.Clone()
			maps.Copy(merged, added)
			rewrites = r.annotate(files, merged)
		}

		if ws.CommitResolution(revision, added, rewrites) {
			return nil
		}
		r.logger.Debug("Files changed during dependency resolution, resolving again")
	}
}

// missing returns the scanned modules that still need a bundle, keyed by package name.
func (r *Resolver) missing(scanned map[string]string, deps domain.Dependencies, sdkVersion string) map[string]string {
	out := make(map[string]string)
	for spec, pin := range scanned {
		pkg, err := domain.ParsePackageName(spec)
		if err != nil {
			continue
		}
		name := pkg.FullName()
		if domain.IsModulePreloaded(name, sdkVersion) {
			continue
		}
		if dep, ok := deps[name]; ok && (domain.IsLatest(pin) || dep.Matches(pin)) {
			continue
		}
		if cur, ok := out[name]; ok && cur != "" {
			continue
		}
		out[name] = pin
	}
	return out
}

// annotate writes dependency versions into code files as trailing comments.
func (r *Resolver) annotate(files domain.Files, deps domain.Dependencies) map[string]string {
	if len(deps) == 0 {
		return nil
	}
	versions := make(map[string]string, len(deps))
	for name, dep := range deps {
		versions[name] = dep.Version
	}

	rewrites := make(map[string]string)
	for _, p := range files.Paths() {
		f := files[p]
		if f.Type != domain.FileTypeCode || !slices.Contains(scannableExts, path.Ext(p)) {
			continue
		}
		out, err := r.annotator.Rewrite(f.Contents, versions)
		if err != nil {
			if r.verbose {
				r.logger.Warn("Error writing module versions in " + p + ": " + err.Error())
			}
			continue
		}
		if out != f.Contents {
			rewrites[p] = out
		}
	}
	return rewrites
}

type namedEntry struct {
	name string
	dep  domain.Dependency
}

// entryFor builds the dependency entry for a bundle fetched for requested@version.
func entryFor(requested string, b *domain.Bundle, version string) namedEntry {
	name := b.Name
	if name == "" {
		name = requested
		if pkg, err := domain.ParsePackageName(requested); err == nil {
			name = pkg.FullName()
		}
	}
	if domain.IsLatest(version) {
		version = b.Version
	}
	return namedEntry{
		name: name,
		dep: domain.Dependency{
			Version:          version,
			Resolved:         b.Version,
			PeerDependencies: maps.Clone(b.Dependencies),
		},
	}
}
