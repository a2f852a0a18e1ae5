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
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/wirecheck/wirecheck/pkg/client"
)

// JSONEquals checks that the response body decodes to exactly the wanted
// document. The expectation is round-tripped through JSON first so Go ints
// compare equal to the float64 values decoding produces.
func JSONEquals(resp *client.Response, want any) error {
	got, err := decodeBody(resp)
	if err != nil {
		return err
	}

	expected, err := normalize(want)
	if err != nil {
		return err
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		return &Failure{
			Check:    "json body",
			Expected: compact(expected),
			Actual:   excerpt(resp.Body),
			Diff:     diff,
		}
	}

	return nil
}

// JSONContains checks that the response body is a JSON object containing
// every key in want with an equal value. Keys absent from want are ignored,
// so the check keeps passing when the API grows new fields.
func JSONContains(resp *client.Response, want map[string]any) error {
	object, err := decodeObject(resp)
	if err != nil {
		return err
	}

	expected, err := normalize(want)
	if err != nil {
		return err
	}

	expectedObject, ok := expected.(map[string]any)
	if !ok {
		return fmt.Errorf("expected value %s is not a JSON object", compact(expected))
	}

	// Restrict the document to the expected keys so the diff only shows
	// what the caller asked about.
	subset := make(map[string]any, len(expectedObject))

	for key := range expectedObject {
		if value, ok := object[key]; ok {
			subset[key] = value
		}
	}

	if diff := cmp.Diff(expectedObject, subset); diff != "" {
		return &Failure{
			Check:    "json subset",
			Expected: compact(expectedObject),
			Actual:   excerpt(resp.Body),
			Diff:     diff,
		}
	}

	return nil
}

// JSONKeys checks that the response body is a JSON object with every named
// key present, whatever the values.
func JSONKeys(resp *client.Response, keys ...string) error {
	object, err := decodeObject(resp)
	if err != nil {
		return err
	}

	present := set.New[string](slices.Collect(maps.Keys(object))...)

	missing := slices.Collect(set.New[string](keys...).Difference(present).All())
	if len(missing) == 0 {
		return nil
	}

	slices.Sort(missing)

	return &Failure{
		Check:    "json keys",
		Expected: "keys " + strings.Join(keys, ", "),
		Actual:   "missing " + strings.Join(missing, ", ") + " in " + excerpt(resp.Body),
	}
}

// JSONField checks the value at a dotted path through nested JSON objects,
// e.g. "user.address.city". An empty path addresses the document root.
func JSONField(resp *client.Response, path string, want any) error {
	document, err := decodeBody(resp)
	if err != nil {
		return err
	}

	value, lookupErr := lookup(document, path)
	if lookupErr != nil {
		return &Failure{
			Check:    "json field " + path,
			Expected: "a value at the path",
			Actual:   lookupErr.Error(),
		}
	}

	expected, err := normalize(want)
	if err != nil {
		return err
	}

	if diff := cmp.Diff(expected, value); diff != "" {
		return &Failure{
			Check:    "json field " + path,
			Expected: compact(expected),
			Actual:   compact(value),
			Diff:     diff,
		}
	}

	return nil
}

// ListNotEmpty checks that the value at a dotted path is a JSON array with
// at least one element. An empty path addresses the document root.
func ListNotEmpty(resp *client.Response, path string) error {
	document, err := decodeBody(resp)
	if err != nil {
		return err
	}

	check := "json list"
	if path != "" {
		check += " " + path
	}

	value, lookupErr := lookup(document, path)
	if lookupErr != nil {
		return &Failure{
			Check:    check,
			Expected: "a non-empty array at the path",
			Actual:   lookupErr.Error(),
		}
	}

	list, ok := value.([]any)
	if !ok {
		return &Failure{
			Check:    check,
			Expected: "a JSON array",
			Actual:   compact(value),
		}
	}

	if len(list) == 0 {
		return &Failure{
			Check:    check,
			Expected: "a non-empty array",
			Actual:   "an empty array",
		}
	}

	return nil
}

// decodeBody decodes the response body into a generic JSON value, reporting
// undecodable bodies as check failures rather than programmer errors.
func decodeBody(resp *client.Response) (any, error) {
	var document any

	if err := json.Unmarshal(resp.Body, &document); err != nil {
		return nil, &Failure{
			Check:    "json body",
			Expected: "a valid JSON document",
			Actual:   fmt.Sprintf("%v in %s", err, excerpt(resp.Body)),
		}
	}

	return document, nil
}

// decodeObject decodes the response body and requires it to be an object.
func decodeObject(resp *client.Response) (map[string]any, error) {
	document, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	object, ok := document.(map[string]any)
	if !ok {
		return nil, &Failure{
			Check:    "json body",
			Expected: "a JSON object",
			Actual:   excerpt(resp.Body),
		}
	}

	return object, nil
}

// normalize round-trips a value through JSON so expectations written with Go
// types compare against decoded documents on JSON terms.
func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding expected value as JSON: %w", err)
	}

	var normalized any

	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("decoding expected value: %w", err)
	}

	return normalized, nil
}

// compact renders a value as single-line JSON for failure messages.
func compact(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(data)
}

// lookup walks a dotted path through nested JSON objects.
func lookup(document any, path string) (any, error) {
	if path == "" {
		return document, nil
	}

	current := document

	for _, segment := range strings.Split(path, ".") {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("segment %q is not an object", segment)
		}

		value, ok := object[segment]
		if !ok {
			return nil, fmt.Errorf("key %q not found", segment)
		}

		current = value
	}

	return current, nil
}
