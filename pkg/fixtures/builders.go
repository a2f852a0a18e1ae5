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

package fixtures

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// PostPayloadBuilder builds post payloads for create and update requests.
type PostPayloadBuilder struct {
	payload map[string]any
}

// NewPostPayload creates a post payload builder with sensible defaults and
// a unique title.
func NewPostPayload() *PostPayloadBuilder {
	return &PostPayloadBuilder{
		payload: map[string]any{
			"userId": 1,
			"title":  fmt.Sprintf("testautomation-%s", GenerateTestID()),
			"body":   "created by the wirecheck suites",
		},
	}
}

// WithTitle sets the post title (pass empty string to omit the field).
func (b *PostPayloadBuilder) WithTitle(title string) *PostPayloadBuilder {
	if title == "" {
		delete(b.payload, "title")
	} else {
		b.payload["title"] = title
	}

	return b
}

// WithBody sets the post body.
func (b *PostPayloadBuilder) WithBody(body string) *PostPayloadBuilder {
	b.payload["body"] = body

	return b
}

// WithUserID sets the authoring user.
func (b *PostPayloadBuilder) WithUserID(userID int) *PostPayloadBuilder {
	b.payload["userId"] = userID

	return b
}

// Build returns the completed payload.
func (b *PostPayloadBuilder) Build() map[string]any {
	return b.payload
}

// GenerateTestID returns a short random hex suffix so names created by
// reruns never collide.
func GenerateTestID() string {
	buf := make([]byte, 4)

	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}
