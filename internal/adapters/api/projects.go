package api

import (
	"context"
	"net/http"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProjectService = (*Client)(nil)

type saveResponse struct {
	remoteErrors
	ID string `json:"id"`
}

// Save stores the project. Any answer without an id is a failure.
func (c *Client) Save(ctx context.Context, user domain.User, body domain.SaveRequest) (domain.SaveResult, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.baseURL+SavePath, body)
	if err != nil {
		return domain.SaveResult{}, err
	}
	applyAuth(req, user)

	var resp saveResponse
	status, err := c.do(req, &resp)
	if err != nil {
		return domain.SaveResult{}, zerr.Wrap(err, domain.ErrSaveFailed.Error())
	}
	if resp.ID == "" {
		return domain.SaveResult{}, remoteError(domain.ErrSaveFailed, resp.message(), status)
	}
	return domain.SaveResult{ID: resp.ID}, nil
}

// UpdateMetadata forwards a runtime status report for the project id.
func (c *Client) UpdateMetadata(ctx context.Context, id, previewLocation, status string) error {
	body := domain.MetadataUpdate{ID: id, PreviewLocation: previewLocation, Status: status}
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.baseURL+UpdateMetadataPath, body)
	if err != nil {
		return err
	}

	var resp saveResponse
	code, err := c.do(req, &resp)
	if err != nil {
		return zerr.Wrap(err, domain.ErrUpdateMetadataFailed.Error())
	}
	if resp.ID == "" {
		return remoteError(domain.ErrUpdateMetadataFailed, resp.message(), code)
	}
	return nil
}

// DownloadURL returns the archive download location of a saved project.
func (c *Client) DownloadURL(id string) string {
	return c.baseURL + DownloadPath + id
}
