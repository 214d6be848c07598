package session

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// AddModule resolves a module with its peer dependencies and adds it to the project.
// Installs run one at a time in call order. A failed fetch is also reported to the dependency error listener.
func (s *Session) AddModule(ctx context.Context, name, version string) error {
	if err := s.checkNotStopped(); err != nil {
		return err
	}
	taskCtx, cancel := s.detach(ctx)
	defer cancel()

	return s.queue.Submit(taskCtx, func(ctx context.Context) error {
		defer s.publisher.Trigger()

		deps, err := s.addModule(ctx, name, version, s.store.Dependencies())
		if err != nil {
			return err
		}
		s.store.SetDependencies(deps)
		return nil
	})
}

// RemoveModule drops a module from the project and schedules a publish.
func (s *Session) RemoveModule(ctx context.Context, name string) error {
	if err := s.checkNotStopped(); err != nil {
		return err
	}
	taskCtx, cancel := s.detach(ctx)
	defer cancel()

	return s.queue.Submit(taskCtx, func(context.Context) error {
		deps := s.store.Dependencies()
		if _, ok := deps[name]; !ok {
			return nil
		}
		delete(deps, name)
		s.store.SetDependencies(deps)
		s.publisher.Trigger()
		return nil
	})
}

// SyncDependencies keeps only the listed modules and installs the missing ones in name order.
// A module that fails to install is passed to onError and the sync carries on.
func (s *Session) SyncDependencies(ctx context.Context, modules map[string]string, onError func(name string, err error)) error {
	if err := s.checkNotStopped(); err != nil {
		return err
	}
	taskCtx, cancel := s.detach(ctx)
	defer cancel()

	return s.queue.Submit(taskCtx, func(ctx context.Context) error {
		deps := s.store.Dependencies()
		maps.DeleteFunc(deps, func(name string, _ domain.Dependency) bool {
			_, keep := modules[name]
			return !keep
		})

		for _, name := range slices.Sorted(maps.Keys(modules)) {
			next, err := s.addModule(ctx, name, modules[name], deps)
			if err != nil {
				if onError != nil {
					onError(name, err)
				}
				continue
			}
			deps = next
		}

		if s.store.SetDependencies(deps) {
			s.publisher.Trigger()
		}
		return nil
	})
}

// addModule returns previous extended with name and its peers.
func (s *Session) addModule(ctx context.Context, name, version string, previous domain.Dependencies) (domain.Dependencies, error) {
	sdkVersion := s.store.SDKVersion()
	if domain.IsModulePreloaded(name, sdkVersion) {
		return nil, zerr.With(zerr.Wrap(domain.ErrModulePreloaded, "Module is already preloaded: "+name), "sdk_version", sdkVersion)
	}
	if dep, ok := previous[name]; ok && dep.Matches(version) {
		return previous, nil
	}

	requested := moduleLabel(name, version)
	ctx, span := s.deps.Tracer.Start(ctx, "resolve", ports.WithAttribute("module", requested))
	defer span.End()

	end := s.store.BeginResolving()
	defer func() {
		end()
		s.publisher.SetLoadingMessage(ctx, "")
	}()
	s.publisher.SetLoadingMessage(ctx, "Resolving module: "+requested)
	s.deps.Logger.Debug("Resolving module: " + requested)

	deps, err := s.resolver.Install(ctx, resolver.InstallRequest{
		Name:       name,
		Version:    version,
		Existing:   previous,
		SDKVersion: sdkVersion,
		OnProgress: func(module string) {
			s.publisher.SetLoadingMessage(ctx, "Resolving module: "+module)
		},
	})
	if err != nil {
		span.RecordError(err)
		s.deps.Logger.Debug("Error resolving module: " + err.Error())
		s.bus.EmitDependencyError(domain.DependencyErrorMessage(name, version, err))
		return nil, err
	}
	return deps, nil
}

func moduleLabel(name, version string) string {
	if version == "" {
		return name
	}
	return name + "@" + version
}
