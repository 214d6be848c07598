package ports

import (
	"context"

	"go.trai.ch/livepush/internal/core/domain"
)

//go:generate mockgen -source=projects.go -destination=mocks/mock_projects.go -package=mocks

// ProjectService persists projects remotely.
type ProjectService interface {
	// Save stores the project. The returned result carries the id; URL is left for the caller.
	Save(ctx context.Context, user domain.User, req domain.SaveRequest) (domain.SaveResult, error)
	// UpdateMetadata forwards a runtime status report for a saved project.
	UpdateMetadata(ctx context.Context, id, previewLocation, status string) error
	// DownloadURL returns where a saved project can be downloaded as an archive.
	DownloadURL(id string) string
}

// ArtifactBuilder produces installable artifacts from a project.
type ArtifactBuilder interface {
	// Build starts a build and returns its job id.
	Build(ctx context.Context, user domain.User, req domain.BuildRequest) (string, error)
	// Status lists the jobs the build service knows about.
	Status(ctx context.Context, user domain.User, req domain.BuildRequest) ([]domain.BuildJob, error)
}

// KeepAlive registers a running session with the development session service.
type KeepAlive interface {
	// NotifyAlive refreshes the registration.
	NotifyAlive(ctx context.Context, user domain.User, deviceID string, session domain.SessionDescriptor) error
}
