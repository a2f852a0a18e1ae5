/*
Copyright 2026 the Wirecheck Authors.

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

// Package probe answers the question "is the API up yet". The client itself
// never retries; all polling lives here, explicit and bounded.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/wirecheck/wirecheck/pkg/client"
	"github.com/wirecheck/wirecheck/pkg/expect"
)

const (
	initialInterval = 250 * time.Millisecond
	maxInterval     = 5 * time.Second
)

// Check performs a single readiness probe: the health endpoint must answer
// 200 with a body reporting ok.
func Check(ctx context.Context, api *client.Client) error {
	resp, err := api.Get(ctx, "/health")
	if err != nil {
		return err
	}

	if err := expect.Status(resp, http.StatusOK); err != nil {
		return err
	}

	return expect.JSONContains(resp, map[string]any{"status": "ok"})
}

// Wait polls the health endpoint until Check passes, sleeping with
// exponential backoff between attempts. It gives up after the given number
// of attempts or when the context expires, returning the last probe error.
func Wait(ctx context.Context, api *client.Client, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}

	operation := func() (struct{}, error) {
		return struct{}{}, Check(ctx, api)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialInterval
	policy.MaxInterval = maxInterval

	_, err := backoff.Retry(ctx, operation, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(attempts)))
	if err != nil {
		return fmt.Errorf("waiting for %s to become ready: %w", api.BaseURL(), err)
	}

	return nil
}
