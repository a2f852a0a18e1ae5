/*
Copyright 2025-2026 the Wirecheck Authors.

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

package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wirecheck/wirecheck/pkg/config"
)

//go:generate mockgen -destination mock/doer.go -package mock github.com/wirecheck/wirecheck/pkg/client Doer

// Doer issues a single HTTP request. *http.Client satisfies it; unit tests
// substitute the generated mock from pkg/client/mock.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps net/http with the conventions the test suites rely on: base
// URL resolution, header merging, bearer auth, trace propagation and
// structured request logging.
type Client struct {
	baseURL        string
	doer           Doer
	authToken      string
	userAgent      string
	defaultHeaders http.Header
	logRequests    bool
	logResponses   bool
	logger         *slog.Logger
	closeOnce      sync.Once
}

// New builds a Client from an explicitly supplied configuration. The
// configuration is copied into the client; later mutations of cfg have no
// effect.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("nil configuration")
	}

	client := &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		authToken:      cfg.AuthToken,
		userAgent:      cfg.UserAgent,
		defaultHeaders: http.Header{},
		logRequests:    cfg.LogRequests,
		logResponses:   cfg.LogResponses,
		logger:         slog.Default(),
	}

	for name, value := range cfg.DefaultHeaders {
		client.defaultHeaders.Set(name, value)
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		return nil, fmt.Errorf("%w: API_BASE_URL", config.ErrMissingRequired)
	}

	if client.doer == nil {
		client.doer = &http.Client{
			Timeout: cfg.RequestTimeout,
		}
	}

	return client, nil
}

// BaseURL returns the resolved base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthToken swaps the bearer token used by subsequent requests. Call it
// between requests, not concurrently with them.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

// Get issues a GET request against path.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST request against path with the given body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put issues a PUT request against path with the given body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Delete issues a DELETE request against path.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do issues a single request and returns the fully read response. The
// Response reports whatever status the server sent; an error means the
// exchange itself failed and is always a *TransportError once the request
// was built.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	options := newRequestOptions()

	for _, opt := range opts {
		opt(options)
	}

	if options.err != nil {
		return nil, options.err
	}

	var (
		reader      io.Reader
		contentType string
	)

	if options.rawBody != nil {
		reader = bytes.NewReader(options.rawBody)
	} else {
		var err error

		reader, contentType, err = encodeBody(body)
		if err != nil {
			return nil, err
		}
	}

	url := c.resolveURL(path)

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request for %s: %w", method, url, err)
	}

	// Merge order: client defaults, implicit headers, then per-request
	// options so the caller always has the last word.
	for name := range c.defaultHeaders {
		req.Header.Set(name, c.defaultHeaders.Get(name))
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	traceParent := generateTraceParent()
	traceID := extractTraceID(traceParent)

	req.Header.Set("Traceparent", traceParent)

	for name := range options.headers {
		req.Header.Set(name, options.headers.Get(name))
	}

	if len(options.query) > 0 {
		query := req.URL.Query()

		for key, values := range options.query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		req.URL.RawQuery = query.Encode()
	}

	if c.logRequests {
		c.logger.Info("request", "method", method, "url", req.URL.String(), "trace", traceID)
	}

	start := time.Now()

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &TransportError{
			Method:  method,
			URL:     req.URL.String(),
			TraceID: traceID,
			Err:     err,
		}
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			Method:  method,
			URL:     req.URL.String(),
			TraceID: traceID,
			Err:     fmt.Errorf("reading response body: %w", err),
		}
	}

	duration := time.Since(start)

	response := &Response{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    resp.Header,
		Body:       data,
		Duration:   duration,
		TraceID:    traceID,
	}

	if c.logRequests {
		c.logger.Info("response", "method", method, "url", req.URL.String(), "status", response.Status, "duration", duration, "trace", traceID)
	}

	if c.logResponses {
		c.logger.Debug("response body", "trace", traceID, "body", response.Text())
	}

	return response, nil
}

// Close releases idle connections held by the underlying transport. Safe to
// call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if closer, ok := c.doer.(interface{ CloseIdleConnections() }); ok {
			closer.CloseIdleConnections()
		}
	})
}

// resolveURL joins path onto the base URL. Absolute URLs pass through
// untouched so tests can hit third party endpoints with the same client.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// encodeBody prepares the request body. Raw byte, string and reader bodies
// pass through untouched; anything else is JSON encoded with the content
// type defaulted to application/json.
func encodeBody(body any) (io.Reader, string, error) {
	switch value := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(value), "", nil
	case string:
		return strings.NewReader(value), "", nil
	case io.Reader:
		return value, "", nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body as JSON: %w", err)
		}

		return bytes.NewReader(data), "application/json", nil
	}
}

// generateTraceParent builds a W3C traceparent value with random trace and
// span identifiers.
func generateTraceParent() string {
	traceID := make([]byte, 16)
	spanID := make([]byte, 8)

	_, _ = rand.Read(traceID)
	_, _ = rand.Read(spanID)

	return fmt.Sprintf("00-%s-%s-01", hex.EncodeToString(traceID), hex.EncodeToString(spanID))
}

// extractTraceID pulls the trace ID field out of a traceparent value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}
