/*
Copyright 2026 The Updrift authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package client implements the Updrift management API client. It
// constructs and signs requests, adapts the wire shapes of the backend
// to the SDK's domain types, and drives the release upload workflow on
// top of the bundle package.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/updrift/updrift-go/bundle"
	"github.com/updrift/updrift-go/config"
	"github.com/updrift/updrift-go/redact"
)

// SDKVersion is reported to the backend on every request.
const SDKVersion = "1.0.0"

// maxResponseSize caps how much of a response body is read into memory.
const maxResponseSize = 4 << 20

// Client is an Updrift management API client.
type Client struct {
	serverURL string
	accessKey string
	http      *retryablehttp.Client
	log       logr.Logger
	bundler   *bundle.Bundler
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for retry and error reporting.
func WithLogger(log logr.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithBundler sets the bundler used to package release input paths.
func WithBundler(b *bundle.Bundler) Option {
	return func(c *Client) {
		c.bundler = b
	}
}

// New configures the retryable HTTP client and returns a Client for
// the management API described by the given options.
func New(opts *config.Options, clientOpts ...Option) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("options cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		serverURL: strings.TrimRight(opts.ServerURL, "/"),
		accessKey: opts.AccessKey,
		log:       logr.Discard(),
	}
	for _, opt := range clientOpts {
		opt(c)
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryWaitMin = 1 * time.Second
	httpClient.RetryWaitMax = 30 * time.Second
	httpClient.RetryMax = opts.MaxRetries
	httpClient.Logger = newErrorLogger(c.log)
	if opts.RequestTimeout > 0 {
		httpClient.HTTPClient.Timeout = opts.RequestTimeout
	}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		httpClient.HTTPClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	}
	c.http = httpClient

	if c.bundler == nil {
		c.bundler = bundle.New()
	}
	return c, nil
}

// apiPath joins the given segments into a request path, escaping each
// segment so that app and deployment names survive URL encoding.
func apiPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

// doJSON marshals in (when non-nil) as the JSON request body and
// decodes the response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = b
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// do performs a single API request and maps non-2xx responses to
// *APIError. Transport errors are surfaced with the access key
// redacted from their text.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.serverURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Updrift-SDK-Version", SDKVersion)
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %s", path, redact.AccessKey(err.Error(), c.accessKey))
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, b, c.accessKey)
	}

	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}
