/*
Copyright 2026 Nscale.

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

// Package transport issues HTTP requests against the service under test.
// Every request carries W3C trace context headers so failures can be found
// in service logs, and the client keeps cookies between requests the way a
// browser session would.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/metrics"
)

// Options are per request inputs.
type Options struct {
	// Params are appended to the query string.
	Params url.Values
	// Data is marshalled as the JSON request body.
	Data any
	// RawBody is sent verbatim and takes precedence over Data.
	RawBody string
	// Headers are set after the defaults and so may replace them.
	Headers map[string]string
}

// Client is safe for concurrent use.
type Client struct {
	baseURL      string
	client       *http.Client
	logger       logging.Logger
	recorder     *metrics.Recorder
	logRequests  bool
	logResponses bool

	lock      sync.RWMutex
	authToken string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request, including reading the body.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// WithAuthToken sends a bearer token on every request.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRecorder records every exchange.
func WithRecorder(recorder *metrics.Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// WithRequestLogging logs a summary line per request.
func WithRequestLogging(enabled bool) Option {
	return func(c *Client) {
		c.logRequests = enabled
	}
}

// WithResponseLogging logs response bodies.
func WithResponseLogging(enabled bool) Option {
	return func(c *Client) {
		c.logResponses = enabled
	}
}

// WithTransport replaces the round tripper, for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.client.Transport = rt
	}
}

// New returns a client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Jar: jar,
		},
		logger:   logging.Discard(),
		recorder: metrics.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL is the root every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthToken replaces the bearer token, an empty token disables it.
func (c *Client) SetAuthToken(token string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.authToken = token
}

func (c *Client) token() string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.authToken
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, opts Options) (*Response, error) {
	return c.Fetch(ctx, http.MethodGet, path, opts)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, opts Options) (*Response, error) {
	return c.Fetch(ctx, http.MethodPost, path, opts)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, opts Options) (*Response, error) {
	return c.Fetch(ctx, http.MethodPut, path, opts)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts Options) (*Response, error) {
	return c.Fetch(ctx, http.MethodDelete, path, opts)
}

func (c *Client) url(path string, params url.Values) string {
	full := c.baseURL + path

	if len(params) == 0 {
		return full
	}

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}

	return full + separator + params.Encode()
}

func body(opts Options) ([]byte, error) {
	if opts.RawBody != "" {
		return []byte(opts.RawBody), nil
	}

	if opts.Data == nil {
		return nil, nil
	}

	data, err := json.Marshal(opts.Data)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	return data, nil
}

// Fetch issues a request with any method.  Any HTTP status is a successful
// exchange; errors are reserved for requests that produced no response.
func (c *Client) Fetch(ctx context.Context, method, path string, opts Options) (*Response, error) {
	payload, err := body(opts)
	if err != nil {
		return nil, err
	}

	fullURL := c.url(path, opts.Params)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=userapi")
	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(req.URL)
		}

		c.recorder.ObserveRequest(method, 0, duration)
		c.logger.Error("http request failed", "method", method, "path", path, "duration", duration, "traceparent", traceParent, "error", err, "curl", reproducer(req, payload))

		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	c.recorder.ObserveRequest(method, resp.StatusCode, duration)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("reading response body", "method", method, "path", path, "status", resp.StatusCode, "traceparent", traceParent, "error", err, "curl", reproducer(req, payload))

		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.logRequests {
		c.logger.Info("api request", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)
	}

	if c.logResponses && len(respBody) > 0 {
		c.logger.Info("api response body", "method", method, "path", path, "body", string(respBody))
	}

	return newResponse(resp, respBody, traceParent), nil
}
