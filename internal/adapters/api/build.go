package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactBuilder = (*Client)(nil)

type buildOptions struct {
	Platform   string           `json:"platform"`
	Mode       domain.BuildMode `json:"mode"`
	Snack      bool             `json:"snack,omitempty"`
	Current    *bool            `json:"current,omitempty"`
	SDKVersion string           `json:"sdkVersion"`
}

type buildBody struct {
	Manifest domain.ExpoManifest `json:"manifest"`
	Options  buildOptions        `json:"options"`
}

type buildResponse struct {
	remoteErrors
	ID   string            `json:"id"`
	Jobs []domain.BuildJob `json:"jobs"`
}

func newClientID() string {
	return "c-" + uuid.NewString()
}

func newBuildBody(r domain.BuildRequest) buildBody {
	opts := buildOptions{
		Platform:   "android",
		Mode:       r.Mode,
		SDKVersion: r.SDKVersion,
	}
	if r.Mode == domain.BuildModeStatus {
		current := false
		opts.Current = &current
	} else {
		opts.Snack = true
	}
	return buildBody{Manifest: r.Manifest, Options: opts}
}

func (c *Client) callBuild(ctx context.Context, user domain.User, r domain.BuildRequest) (buildResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPut, c.baseURL+BuildPath, newBuildBody(r))
	if err != nil {
		return buildResponse{}, err
	}
	req.Header.Set("Exp-ClientId", c.newClientID())
	applyAuth(req, user)

	var resp buildResponse
	status, err := c.do(req, &resp)
	if err != nil {
		return buildResponse{}, zerr.Wrap(err, domain.ErrBuildFailed.Error())
	}
	if msg := resp.message(); msg != "" || !isSuccess(status) {
		return buildResponse{}, remoteError(domain.ErrBuildFailed, msg, status)
	}
	return resp, nil
}

// Build starts an Android build and returns its job id.
func (c *Client) Build(ctx context.Context, user domain.User, r domain.BuildRequest) (string, error) {
	r.Mode = domain.BuildModeCreate
	resp, err := c.callBuild(ctx, user, r)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", zerr.Wrap(domain.ErrBuildFailed, "build service returned no job id")
	}
	return resp.ID, nil
}

// Status lists the Android jobs known to the build service.
func (c *Client) Status(ctx context.Context, user domain.User, r domain.BuildRequest) ([]domain.BuildJob, error) {
	r.Mode = domain.BuildModeStatus
	resp, err := c.callBuild(ctx, user, r)
	if err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}
