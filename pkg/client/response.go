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
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Response is an immutable snapshot of a completed exchange. The body has
// been read in full and the underlying connection returned to the pool
// before a Response is handed out.
type Response struct {
	// Status is the HTTP status code exactly as the server sent it.
	Status int

	// StatusText is the canonical reason phrase for Status.
	StatusText string

	// Headers are the response headers.
	Headers http.Header

	// Body is the raw response body.
	Body []byte

	// Duration measures the exchange from write to last body byte.
	Duration time.Duration

	// TraceID is the W3C trace ID the request carried.
	TraceID string
}

// JSON decodes the body into the given value.
func (r *Response) JSON(into any) error {
	if err := json.Unmarshal(r.Body, into); err != nil {
		return fmt.Errorf("decoding response body as JSON: %w", err)
	}

	return nil
}

// JSONMap decodes the body as a JSON object.
func (r *Response) JSONMap() (map[string]any, error) {
	var object map[string]any

	if err := r.JSON(&object); err != nil {
		return nil, err
	}

	return object, nil
}

// JSONSlice decodes the body as a JSON array.
func (r *Response) JSONSlice() ([]any, error) {
	var list []any

	if err := r.JSON(&list); err != nil {
		return nil, err
	}

	return list, nil
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Header returns the first value of the named response header.
func (r *Response) Header(name string) string {
	return r.Headers.Get(name)
}

// IsSuccess reports whether the status is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsClientError reports whether the status is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.Status >= 400 && r.Status < 500
}

// IsServerError reports whether the status is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.Status >= 500 && r.Status < 600
}
