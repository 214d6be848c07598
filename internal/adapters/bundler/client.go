// Package bundler talks to the bundling service that packages npm modules for runtimes.
package bundler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxErrorBody bounds how much of a failed response is kept as the error message.
const maxErrorBody = 4 << 10

// Client implements ports.Bundler over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
	logger  ports.Logger
}

var _ ports.Bundler = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithCache stores answers for exact versions in cache.
func WithCache(cache *Cache) Option {
	return func(cl *Client) {
		cl.cache = cache
	}
}

// WithLogger reports cache failures at debug level.
func WithLogger(l ports.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the bundle endpoint for name and an optional version.
func (c *Client) URL(name, version string) string {
	target := c.baseURL + "/bundle/" + name
	if version != "" {
		target += "@" + version
	}
	return target + "?platforms=ios,android"
}

// Fetch makes one request for name@version.
// A non-200 answer fails with the response body as the message.
func (c *Client) Fetch(ctx context.Context, name, version string) (*domain.Bundle, error) {
	cacheable := c.cache != nil && Cacheable(version)
	if cacheable {
		bundle, err := c.cache.Get(name, version)
		if err != nil {
			c.debug("Ignoring bundle cache: " + err.Error())
		}
		if bundle != nil {
			return bundle, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(name, version), nil)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrBundlerRequestFailed.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBundlerRequestFailed.Error()), "module", domain.ModuleKey(name, version))
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = strconv.Itoa(resp.StatusCode) + " " + http.StatusText(resp.StatusCode)
		}
		return nil, zerr.With(zerr.New(message), "status", resp.StatusCode)
	}

	var bundle domain.Bundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBundlerResponseInvalid.Error()), "module", domain.ModuleKey(name, version))
	}

	if cacheable && !bundle.Pending {
		if err := c.cache.Put(name, version, &bundle); err != nil {
			c.debug("Could not cache bundle: " + err.Error())
		}
	}
	return &bundle, nil
}

func (c *Client) debug(msg string) {
	if c.logger != nil {
		c.logger.Debug(msg)
	}
}
