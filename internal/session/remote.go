package session

import (
	"context"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// Save stores the project remotely and returns its id and web URL.
// On success the project counts as saved and runtimes are asked for their status.
func (s *Session) Save(ctx context.Context) (domain.SaveResult, error) {
	return s.save(ctx, false)
}

// SaveDraft saves the project as a draft.
func (s *Session) SaveDraft(ctx context.Context) (domain.SaveResult, error) {
	return s.save(ctx, true)
}

func (s *Session) save(ctx context.Context, draft bool) (domain.SaveResult, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "save", ports.WithAttribute("draft", draft))
	defer span.End()

	snapshot := s.store.Snapshot()
	req := domain.SaveRequest{
		Manifest: domain.SaveManifest{
			SDKVersion:   snapshot.SDKVersion,
			Name:         snapshot.Name,
			Description:  snapshot.Description,
			Dependencies: snapshot.Dependencies.V1(),
		},
		Code:         snapshot.Files,
		Dependencies: snapshot.Dependencies,
		IsDraft:      draft,
	}

	result, err := s.deps.Projects.Save(ctx, s.store.User(), req)
	if err != nil {
		span.RecordError(err)
		return domain.SaveResult{}, err
	}

	s.store.MarkSaved(result.ID)
	if err := s.publisher.RequestStatus(ctx); err != nil {
		s.deps.Logger.Debug("Error requesting status: " + err.Error())
	}

	result.URL = domain.ProjectURL(s.opts.Host, result.ID)
	span.SetAttribute("id", result.ID)
	return result, nil
}

// Download saves the project and returns where it can be downloaded as an archive.
func (s *Session) Download(ctx context.Context) (string, error) {
	result, err := s.Save(ctx)
	if err != nil {
		return "", err
	}
	return s.deps.Projects.DownloadURL(result.ID), nil
}

// GenerateAppJSON returns the default app manifest for the project.
func (s *Session) GenerateAppJSON() domain.AppJSON {
	st := s.store.State()
	return domain.GenerateAppJSON(st.Description, st.SDKVersion)
}

// BuildAPK builds an Android artifact from appJSON and returns its download URL.
// It polls the build service until the build finishes or the build timeout passes.
func (s *Session) BuildAPK(ctx context.Context, appJSON domain.AppJSON) (string, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "build", ports.WithAttribute("platform", "android"))
	defer span.End()

	user := s.store.User()
	req := domain.BuildRequest{
		Manifest:   appJSON.Expo,
		Mode:       domain.BuildModeCreate,
		SDKVersion: s.store.SDKVersion(),
	}

	buildID, err := s.deps.Builder.Build(ctx, user, req)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	span.SetAttribute("build_id", buildID)
	s.deps.Logger.Debug("Started build " + buildID)

	req.Mode = domain.BuildModeStatus
	job, err := s.waitForBuild(ctx, user, req, buildID)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	switch {
	case job.ArtifactID != "":
		return domain.ArtifactURL(s.opts.Host, job.ArtifactID), nil
	case job.Artifacts.URL != "":
		return job.Artifacts.URL, nil
	default:
		err := zerr.With(zerr.Wrap(domain.ErrBuildArtifactMissing, ""), "build_id", buildID)
		span.RecordError(err)
		return "", err
	}
}

// waitForBuild polls the job list once per interval, starting one interval after the build was created.
func (s *Session) waitForBuild(ctx context.Context, user domain.User, req domain.BuildRequest, buildID string) (domain.BuildJob, error) {
	deadline := time.Now().Add(s.opts.BuildTimeout)
	timer := time.NewTimer(s.opts.BuildPollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return domain.BuildJob{}, ctx.Err()
		case <-timer.C:
		}

		jobs, err := s.deps.Builder.Status(ctx, user, req)
		if err != nil {
			return domain.BuildJob{}, err
		}
		for _, job := range jobs {
			if job.ID == buildID && job.Status == domain.BuildStatusFinished {
				return job, nil
			}
		}

		if !time.Now().Before(deadline) {
			return domain.BuildJob{}, zerr.With(zerr.Wrap(domain.ErrBuildTimedOut, ""), "build_id", buildID)
		}
		timer.Reset(s.opts.BuildPollInterval)
	}
}
