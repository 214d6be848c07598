package ports

import "go.trai.ch/livepush/internal/core/domain"

//go:generate mockgen -source=project_reader.go -destination=mocks/mock_project_reader.go -package=mocks

// ProjectReader loads project files from disk.
type ProjectReader interface {
	// Read returns every file below root that is not ignored, keyed by slash separated relative path.
	Read(root string, ignore []string) (domain.Files, error)
}
