package api

import (
	"context"
	"net/http"
	"net/url"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/retry"
	"go.trai.ch/zerr"
)

var _ ports.KeepAlive = (*Client)(nil)

type keepAliveBody struct {
	Data struct {
		Session domain.SessionDescriptor `json:"session"`
	} `json:"data"`
}

// NotifyAlive registers the session with the development session service.
func (c *Client) NotifyAlive(ctx context.Context, user domain.User, deviceID string, session domain.SessionDescriptor) error {
	target := c.keepAliveURL
	if deviceID != "" {
		u, err := url.Parse(target)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrKeepAliveFailed.Error()), "url", target)
		}
		q := u.Query()
		q.Set("deviceId", deviceID)
		u.RawQuery = q.Encode()
		target = u.String()
	}

	var body keepAliveBody
	body.Data.Session = session

	// Network failures and server errors are retried, rejections are not.
	return retry.Do(ctx, c.retry, func() error {
		req, err := c.newJSONRequest(ctx, http.MethodPost, target, body)
		if err != nil {
			return err
		}
		applyAuth(req, user)

		var resp remoteErrors
		status, err := c.do(req, &resp)
		if err != nil {
			return retry.Retryable(zerr.Wrap(err, domain.ErrKeepAliveFailed.Error()))
		}
		if status >= http.StatusInternalServerError {
			return retry.Retryable(remoteError(domain.ErrKeepAliveFailed, resp.message(), status))
		}
		if msg := resp.message(); msg != "" || !isSuccess(status) {
			return remoteError(domain.ErrKeepAliveFailed, msg, status)
		}
		return nil
	})
}
