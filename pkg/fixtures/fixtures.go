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

// Package fixtures wires clients, servers and test data into Ginkgo's
// lifecycle: everything created here cleans itself up when the enclosing
// scope ends, on success and on failure alike.
//
//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wirecheck/wirecheck/pkg/client"
	"github.com/wirecheck/wirecheck/pkg/config"
	"github.com/wirecheck/wirecheck/pkg/expect"
	"github.com/wirecheck/wirecheck/pkg/mockapi"
	"github.com/wirecheck/wirecheck/pkg/probe"
)

// NewClient builds an API client whose connections are released when the
// enclosing scope ends, whichever way it ends.
func NewClient(cfg *config.Config, opts ...client.Option) *client.Client {
	api, err := client.New(cfg, append([]client.Option{client.WithLogger(GinkgoLogger())}, opts...)...)
	Expect(err).NotTo(HaveOccurred())

	DeferCleanup(api.Close)

	return api
}

// StartMockAPI starts a fresh mock API scoped to the suite or spec, closed
// automatically on teardown.
func StartMockAPI(opts ...mockapi.Option) *mockapi.Server {
	server := mockapi.New(opts...)

	DeferCleanup(server.Close)

	return server
}

// GinkgoLogger returns a slog logger writing through GinkgoWriter, so
// client request logs interleave with spec output and only surface when a
// spec fails or runs verbosely.
func GinkgoLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(GinkgoWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SuiteConfig returns the configuration suites use against a suite-local
// server: short timeouts and full request logging.
func SuiteConfig(baseURL string) *config.Config {
	return &config.Config{
		BaseURL:        baseURL,
		RequestTimeout: 10 * time.Second,
		TestTimeout:    time.Minute,
		RetryCount:     3,
		LogLevel:       "debug",
		LogRequests:    true,
		LogResponses:   true,
		UserAgent:      "wirecheck-suite/" + mockapi.Version,
	}
}

// MintToken signs a short-lived HS256 bearer token accepted by a mock API
// started with the same secret.
func MintToken(secret, subject string) string {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    "wirecheck-fixtures",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	Expect(err).NotTo(HaveOccurred())

	return token
}

// WaitForReady polls the health endpoint until the API reports ok, failing
// the suite once the timeout passes.
func WaitForReady(ctx context.Context, api *client.Client, timeout time.Duration) {
	Eventually(func() error {
		return probe.Check(ctx, api)
	}).WithTimeout(timeout).WithPolling(500 * time.Millisecond).Should(Succeed())
}

// CreatePostWithCleanup creates a post and schedules its deletion, so a
// failed spec never leaks data into later ones.
func CreatePostWithCleanup(ctx context.Context, api *client.Client, payload map[string]any) mockapi.Post {
	resp, err := api.Post(ctx, "/posts", payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(expect.Status(resp, http.StatusCreated)).To(Succeed())

	var post mockapi.Post

	Expect(resp.JSON(&post)).To(Succeed())

	GinkgoWriter.Printf("Created post with ID: %d\n", post.ID)

	DeferCleanup(func() {
		GinkgoWriter.Printf("Cleaning up post: %d\n", post.ID)

		resp, err := api.Delete(ctx, fmt.Sprintf("/posts/%d", post.ID))
		if err != nil {
			GinkgoWriter.Printf("Warning: failed to delete post %d: %v\n", post.ID, err)
			return
		}

		// The spec may legitimately have deleted it already.
		if resp.Status != http.StatusOK && resp.Status != http.StatusNotFound {
			GinkgoWriter.Printf("Warning: deleting post %d answered %d\n", post.ID, resp.Status)
		}
	})

	return post
}

// VerifyPostPresence verifies that every expected identifier appears in the
// list of posts.
func VerifyPostPresence(posts []mockapi.Post, expectedIDs ...int) {
	ids := make([]int, len(posts))

	for i, post := range posts {
		ids[i] = post.ID
	}

	for _, expected := range expectedIDs {
		Expect(ids).To(ContainElement(expected), "Expected post ID %d to be present in the list", expected)
	}
}
