package schemaclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"resty.dev/v3"
)

// ObjectInfoPath is the endpoint serving the schema listing.
const ObjectInfoPath = "/object_info"

// ErrUnavailable is returned when the engine cannot be reached or answers
// with a non-success status.
var ErrUnavailable = errors.New("schema endpoint unavailable")

// Options tunes the HTTP client.
type Options struct {
	Timeout    time.Duration
	RetryCount int
}

// Client talks to one engine endpoint.
type Client struct {
	baseURL string
	http    *resty.Client
}

// New returns a client for the engine at baseURL, e.g.
// "http://127.0.0.1:8188".
func New(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetHeader("Accept", "application/json")

	return &Client{baseURL: baseURL, http: c}
}

// Source names the fetched document in logs and schema provenance.
func (c *Client) Source() string {
	return c.baseURL + ObjectInfoPath
}

// ObjectInfo fetches the raw object_info document.
func (c *Client) ObjectInfo(ctx context.Context) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fetching object_info.", "url", c.Source())

	resp, err := c.http.R().
		SetContext(ctx).
		Get(ObjectInfoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, c.Source(), err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnavailable, c.Source(), resp.Status())
	}

	body := resp.Bytes()
	logger.Debug("Fetched object_info.", "url", c.Source(), "bytes", len(body), "duration", resp.Duration())
	return body, nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close()
}
