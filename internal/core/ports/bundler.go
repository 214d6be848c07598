package ports

import (
	"context"

	"go.trai.ch/livepush/internal/core/domain"
)

//go:generate mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks

// Bundler asks the bundling service for a module.
type Bundler interface {
	// Fetch makes a single request. A bundle still being built is returned with Pending set.
	Fetch(ctx context.Context, name, version string) (*domain.Bundle, error)
}
