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

// Package expect provides response checks as plain functions returning nil
// on success and a *Failure error otherwise, so they compose equally well
// with Gomega's Succeed(), testify's require.NoError and bare if statements.
package expect

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/wirecheck/wirecheck/pkg/client"
)

// Status checks that the response carries exactly the wanted status code.
func Status(resp *client.Response, want int) error {
	if resp.Status == want {
		return nil
	}

	return &Failure{
		Check:    "status",
		Expected: fmt.Sprintf("%d %s", want, http.StatusText(want)),
		Actual:   fmt.Sprintf("%d %s (body: %s)", resp.Status, resp.StatusText, excerpt(resp.Body)),
	}
}

// StatusSuccess checks that the response status is in the 2xx range.
func StatusSuccess(resp *client.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	return &Failure{
		Check:    "status",
		Expected: "a 2xx status",
		Actual:   fmt.Sprintf("%d %s (body: %s)", resp.Status, resp.StatusText, excerpt(resp.Body)),
	}
}

// Header checks that the named response header has exactly the wanted value.
func Header(resp *client.Response, name, want string) error {
	got := resp.Header(name)
	if got == want {
		return nil
	}

	actual := fmt.Sprintf("%q", got)
	if got == "" {
		actual = "no value"
	}

	return &Failure{
		Check:    "header " + name,
		Expected: fmt.Sprintf("%q", want),
		Actual:   actual,
	}
}

// ContentType checks that the Content-Type header contains the wanted media
// type, ignoring parameters such as charset.
func ContentType(resp *client.Response, want string) error {
	got := resp.Header("Content-Type")
	if strings.Contains(got, want) {
		return nil
	}

	actual := fmt.Sprintf("%q", got)
	if got == "" {
		actual = "no Content-Type header"
	}

	return &Failure{
		Check:    "content type",
		Expected: fmt.Sprintf("media type containing %q", want),
		Actual:   actual,
	}
}
