package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BlobStore = (*Client)(nil)

type uploadResponse struct {
	remoteErrors
	URL string `json:"url"`
}

// UploadText stores source text through the project service.
func (c *Client) UploadText(ctx context.Context, content string) (string, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.baseURL+UploadCodePath, map[string]string{"code": content})
	if err != nil {
		return "", err
	}
	return c.upload(req)
}

// UploadAsset stores a binary asset as a multipart form upload.
func (c *Client) UploadAsset(ctx context.Context, name string, data []byte) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("asset", name)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrUploadFailed.Error())
	}
	if _, err := part.Write(data); err != nil {
		return "", zerr.Wrap(err, domain.ErrUploadFailed.Error())
	}
	if err := form.Close(); err != nil {
		return "", zerr.Wrap(err, domain.ErrUploadFailed.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadAssetPath, &buf)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrUploadFailed.Error())
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.upload(req)
}

func (c *Client) upload(req *http.Request) (string, error) {
	var resp uploadResponse
	status, err := c.do(req, &resp)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrUploadFailed.Error())
	}
	if resp.URL == "" {
		return "", remoteError(domain.ErrUploadFailed, resp.message(), status)
	}
	return resp.URL, nil
}
