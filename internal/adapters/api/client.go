// Package api talks to the project service: saves, status reports, artifact builds,
// session keep-alive and code uploads.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/retry"
	"go.trai.ch/zerr"
)

// Paths below the API base URL.
const (
	SavePath           = "/--/api/v2/snack/save"
	UpdateMetadataPath = "/--/api/v2/snack/updateMetadata"
	DownloadPath       = "/--/api/v2/snack/download/"
	UploadCodePath     = "/--/api/v2/snack/uploadCode"
	UploadAssetPath    = "/--/api/v2/snack/uploadAsset"
	BuildPath          = "/--/api/build"
)

// Client implements the remote project ports over HTTP.
type Client struct {
	baseURL      string
	keepAliveURL string
	httpClient   *http.Client
	newClientID  func() string
	retry        retry.Config
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithKeepAliveURL sets the endpoint used by NotifyAlive.
func WithKeepAliveURL(url string) Option {
	return func(cl *Client) {
		cl.keepAliveURL = url
	}
}

// WithRetry sets how transient keep-alive failures are retried.
func WithRetry(cfg retry.Config) Option {
	return func(cl *Client) {
		cl.retry = cfg
	}
}

// WithClientIDGenerator replaces how build client ids are generated.
func WithClientIDGenerator(gen func() string) Option {
	return func(cl *Client) {
		cl.newClientID = gen
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL:      baseURL,
		keepAliveURL: baseURL + domain.DefaultKeepAlivePath,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        16,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		newClientID: newClientID,
		retry:       retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// applyAuth adds the user's credentials to a request.
func applyAuth(req *http.Request, user domain.User) {
	if user.IDToken != "" {
		req.Header.Set("Authorization", "Bearer "+user.IDToken)
	}
	if user.SessionSecret != "" {
		req.Header.Set("Expo-Session", user.SessionSecret)
	}
}

// remoteErrors is the error envelope the service returns.
type remoteErrors struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// message returns the first reported error message, or "".
func (r remoteErrors) message() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// remoteError builds the error for a rejected call.
// The service message wins; fallback is used when there is none.
func remoteError(fallback error, msg string, status int) error {
	if msg == "" {
		return zerr.With(zerr.Wrap(fallback, ""), "status", status)
	}
	return zerr.With(zerr.New(msg), "status", status)
}

// newJSONRequest encodes body as JSON and prepares a request.
func (c *Client) newJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a JSON answer into out.
// Bodies that are not JSON leave out untouched.
func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "request failed"), "url", req.URL.String())
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, zerr.With(zerr.Wrap(err, "failed to read response"), "url", req.URL.String())
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		_ = json.Unmarshal(data, out)
	}
	return resp.StatusCode, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
