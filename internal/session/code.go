package session

import (
	"context"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/zerr"
)

// SendCode replaces the project files and schedules a publish.
// Raw assets are uploaded before the files are stored. A failed upload leaves the project unchanged.
func (s *Session) SendCode(ctx context.Context, files domain.Files) error {
	if err := s.checkNotStopped(); err != nil {
		return err
	}
	changed, err := s.store.ApplyFileChanges(ctx, files)
	if err != nil {
		return err
	}
	if changed {
		s.publisher.Trigger()
	}
	return nil
}

// UploadAsset stores a binary asset and returns the URL runtimes load it from.
func (s *Session) UploadAsset(ctx context.Context, name string, data []byte) (string, error) {
	url, err := s.deps.Blobs.UploadAsset(ctx, name, data)
	s.deps.Metrics.ObserveUpload("asset", err)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to upload asset"), "name", name)
	}
	return url, nil
}
