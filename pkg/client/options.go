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
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// Option customizes a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient substitutes the underlying HTTP client, e.g. one with a
// custom transport or cookie jar.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.doer = httpClient
	}
}

// WithDoer substitutes the request executor entirely. Unit tests use this to
// inject a mock.
func WithDoer(doer Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithHeader adds a default header sent on every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.defaultHeaders.Set(name, value)
	}
}

// WithAuthToken overrides the configured bearer token.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// WithLogger routes request and response logging to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers http.Header
	query   url.Values
	rawBody []byte
	err     error
}

func newRequestOptions() *requestOptions {
	return &requestOptions{
		headers: http.Header{},
		query:   url.Values{},
	}
}

// WithRequestHeader sets a header on this request only, overriding any
// default of the same name.
func WithRequestHeader(name, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Set(name, value)
	}
}

// WithQuery appends a query parameter styled as an OpenAPI form parameter,
// so slices become comma separated lists and time values RFC 3339 strings.
func WithQuery(name string, value any) RequestOption {
	return func(o *requestOptions) {
		fragment, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
		if err != nil {
			if o.err == nil {
				o.err = fmt.Errorf("styling query parameter %s: %w", name, err)
			}

			return
		}

		parsed, err := url.ParseQuery(fragment)
		if err != nil {
			if o.err == nil {
				o.err = fmt.Errorf("parsing query parameter %s: %w", name, err)
			}

			return
		}

		for key, values := range parsed {
			for _, value := range values {
				o.query.Add(key, value)
			}
		}
	}
}

// WithRawBody replaces the request body with verbatim bytes of the given
// content type, bypassing JSON encoding.
func WithRawBody(contentType string, body []byte) RequestOption {
	return func(o *requestOptions) {
		o.rawBody = body
		o.headers.Set("Content-Type", contentType)
	}
}
