package resolver

import (
	"context"
	"errors"
	"maps"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/retry"
	"go.trai.ch/zerr"
)

const (
	// PendingPollInterval is the wait between polls of a bundle that is still building.
	PendingPollInterval = 5 * time.Second
	// PendingPollAttempts bounds how often a pending bundle is polled.
	PendingPollAttempts = 30
)

var errStillPending = zerr.New("bundle is still pending")

// Fetch resolves one module against the bundling service.
// Invalid requests fail before any network call. Concurrent fetches of the same
// name@version share one request, successes are memoized and failures are not.
func (r *Resolver) Fetch(ctx context.Context, name, version string) (*domain.Bundle, error) {
	if _, err := domain.ValidateDependency(name, version); err != nil {
		return nil, err
	}
	if domain.IsLatest(version) {
		version = domain.LatestVersion
	}
	key := domain.ModuleKey(name, version)

	r.mu.Lock()
	cached, ok := r.memo[key]
	r.mu.Unlock()
	if ok {
		r.observe("cached", 0)
		return cloneBundle(cached), nil
	}

	result, err, _ := r.group.Do(key, func() (any, error) {
		start := time.Now()
		bundle, err := retry.DoWithResult(ctx, r.poll, func() (*domain.Bundle, error) {
			r.logger.Debug("Requesting dependency: " + key)
			bundle, err := r.bundler.Fetch(ctx, name, version)
			if err != nil {
				return nil, err
			}
			if bundle.Pending {
				return nil, retry.Retryable(errStillPending)
			}
			return bundle, nil
		})

		switch {
		case errors.Is(err, errStillPending):
			r.observe("timeout", time.Since(start))
			return nil, zerr.With(zerr.Wrap(domain.ErrRequestTimedOut, "Request timed out"), "module", key)
		case err != nil:
			r.observe("error", time.Since(start))
			return nil, err
		}

		r.observe("resolved", time.Since(start))
		r.mu.Lock()
		r.memo[key] = bundle
		r.mu.Unlock()
		return bundle, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneBundle(result.(*domain.Bundle)), nil
}

func (r *Resolver) observe(outcome string, d time.Duration) {
	if r.metrics != nil {
		r.metrics.ObserveResolution(outcome, d)
	}
}

func cloneBundle(b *domain.Bundle) *domain.Bundle {
	out := *b
	out.Dependencies = maps.Clone(b.Dependencies)
	return &out
}
