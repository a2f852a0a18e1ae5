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

/*
Package client provides a thin wrapper around net/http tailored to API test
automation.

The client resolves request paths against a configured base URL, merges
default and per-request headers, attaches bearer credentials and a fresh W3C
traceparent to every request, and returns responses whose bodies have already
been read in full, so connections never leak into test teardown.

Basic usage:

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	api, err := client.New(cfg)
	if err != nil {
		return err
	}

	defer api.Close()

	resp, err := api.Get(ctx, "/health")
	if err != nil {
		return err
	}

	fmt.Println(resp.Status, resp.Text())

The client never interprets status codes: a 500 is a valid Response, not an
error. Errors are reserved for the transport itself, reported as
*TransportError with the trace ID of the failed attempt attached.

Configuration is always passed in explicitly; the package keeps no global
state, so independent clients with different settings can coexist in one
process.
*/
package client
