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
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/wirecheck/wirecheck/pkg/client"
)

// MatchesOpenAPI checks the response body against the JSON response schema
// an OpenAPI 3 document declares for the given operation and the response's
// actual status. Undocumented statuses fail; documented responses without a
// JSON schema pass vacuously.
func MatchesOpenAPI(resp *client.Response, doc *openapi3.T, method, path string) error {
	if doc == nil {
		return errors.New("nil OpenAPI document")
	}

	pathItem := doc.Paths.Find(path)
	if pathItem == nil {
		return fmt.Errorf("path %s not found in OpenAPI document", path)
	}

	operation := pathItem.GetOperation(strings.ToUpper(method))
	if operation == nil {
		return fmt.Errorf("operation %s %s not found in OpenAPI document", strings.ToUpper(method), path)
	}

	responseRef := operation.Responses.Status(resp.Status)
	if responseRef == nil || responseRef.Value == nil {
		return &Failure{
			Check:    "openapi response",
			Expected: fmt.Sprintf("a status documented for %s %s", strings.ToUpper(method), path),
			Actual:   fmt.Sprintf("%d %s", resp.Status, resp.StatusText),
		}
	}

	media := responseRef.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}

	document, err := decodeBody(resp)
	if err != nil {
		return err
	}

	if err := media.Schema.Value.VisitJSON(document); err != nil {
		return &Failure{
			Check:    "openapi schema",
			Expected: fmt.Sprintf("a body matching the %s %s %d schema", strings.ToUpper(method), path, resp.Status),
			Actual:   err.Error(),
		}
	}

	return nil
}
