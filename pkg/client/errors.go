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
)

// TransportError reports a request that never completed: connection refused,
// DNS failure, timeout, a body read cut short. Responses carrying error
// statuses are not transport errors, they are ordinary responses.
type TransportError struct {
	// Method is the HTTP method of the failed request.
	Method string

	// URL is the fully resolved request URL.
	URL string

	// TraceID identifies the attempt in server logs.
	TraceID string

	// Err is the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v (trace %s)", e.Method, e.URL, e.Err, e.TraceID)
}

// Unwrap exposes the cause so callers can match with errors.Is, e.g. against
// context.DeadlineExceeded.
func (e *TransportError) Unwrap() error {
	return e.Err
}
