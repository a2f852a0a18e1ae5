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

package expect

import (
	"fmt"
)

// Failure describes a check that did not hold. It always carries what was
// expected and what was actually observed; checks over structured bodies add
// a diff.
type Failure struct {
	// Check names the check that failed, e.g. "status".
	Check string

	// Expected describes the value the check was looking for.
	Expected string

	// Actual describes what the response contained instead.
	Actual string

	// Diff is a go-cmp rendering of the mismatch, when one applies.
	Diff string
}

func (f *Failure) Error() string {
	message := fmt.Sprintf("%s: expected %s, got %s", f.Check, f.Expected, f.Actual)

	if f.Diff != "" {
		message += "\ndiff (-want +got):\n" + f.Diff
	}

	return message
}

// excerpt trims a body for inclusion in a failure message.
func excerpt(body []byte) string {
	const limit = 512

	if len(body) == 0 {
		return "<empty body>"
	}

	if len(body) > limit {
		return string(body[:limit]) + "..."
	}

	return string(body)
}
