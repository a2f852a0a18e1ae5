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

//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wirecheck/wirecheck/pkg/client"
	"github.com/wirecheck/wirecheck/pkg/expect"
	"github.com/wirecheck/wirecheck/pkg/fixtures"
	"github.com/wirecheck/wirecheck/pkg/mockapi"
	"github.com/wirecheck/wirecheck/pkg/probe"
)

var _ = Describe("Error Handling", func() {
	Context("When the API is unreachable", func() {
		It("should surface a transport error carrying request context", func() {
			// Given: An address nothing listens on
			listener, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())

			target := "http://" + listener.Addr().String()

			Expect(listener.Close()).To(Succeed())

			dead := fixtures.NewClient(fixtures.SuiteConfig(target))

			// When: I make a request
			_, err = dead.Get(ctx, "/health")

			// Then: The error names the method, URL and trace of the attempt
			Expect(err).To(HaveOccurred())

			var transportErr *client.TransportError

			Expect(errors.As(err, &transportErr)).To(BeTrue(), "Connection failures should be transport errors")
			Expect(transportErr.Method).To(Equal(http.MethodGet))
			Expect(transportErr.URL).To(ContainSubstring("/health"))
			Expect(transportErr.TraceID).NotTo(BeEmpty())

			GinkgoWriter.Printf("Observed transport error: %v\n", err)
		})
	})

	Context("When the API is slow", func() {
		It("should give up when the context deadline passes", func() {
			slow := fixtures.StartMockAPI(mockapi.WithLatency(2 * time.Second))
			slowAPI := fixtures.NewClient(fixtures.SuiteConfig(slow.URL()))

			deadlineCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()

			_, err := slowAPI.Get(deadlineCtx, "/health")

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue(), "The deadline should be visible through the wrapping")
		})
	})

	Context("When the API degrades", func() {
		var brokenAPI *client.Client

		BeforeEach(func() {
			broken := fixtures.StartMockAPI(mockapi.WithFailure("/health", http.StatusServiceUnavailable))
			brokenAPI = fixtures.NewClient(fixtures.SuiteConfig(broken.URL()))
		})

		It("should pass server errors through as responses", func() {
			resp, err := brokenAPI.Get(ctx, "/health")

			Expect(err).NotTo(HaveOccurred(), "Server errors are responses, not transport failures")
			Expect(resp.Status).To(Equal(http.StatusServiceUnavailable))
			Expect(resp.IsServerError()).To(BeTrue())
		})

		It("should fail readiness checks with the observed status", func() {
			err := probe.Check(ctx, brokenAPI)

			Expect(err).To(HaveOccurred())

			var failure *expect.Failure

			Expect(errors.As(err, &failure)).To(BeTrue())
			Expect(failure.Actual).To(ContainSubstring("503"))
		})
	})

	Context("When an assertion fails", func() {
		It("should report check, expected and actual", func() {
			resp, err := api.Get(ctx, "/health")
			Expect(err).NotTo(HaveOccurred())

			err = expect.Status(resp, http.StatusTeapot)

			Expect(err).To(HaveOccurred())

			var failure *expect.Failure

			Expect(errors.As(err, &failure)).To(BeTrue())
			Expect(failure.Check).To(Equal("status"))
			Expect(failure.Expected).To(ContainSubstring("418"))
			Expect(failure.Actual).To(ContainSubstring("200"))
			Expect(failure.Actual).To(ContainSubstring("ok"), "The actual line should carry the body for diagnosis")
		})

		It("should render a diff for JSON mismatches", func() {
			resp, err := api.Get(ctx, "/health")
			Expect(err).NotTo(HaveOccurred())

			err = expect.JSONContains(resp, map[string]any{"status": "degraded"})

			Expect(err).To(HaveOccurred())

			var failure *expect.Failure

			Expect(errors.As(err, &failure)).To(BeTrue())
			Expect(failure.Diff).NotTo(BeEmpty(), "JSON mismatches should explain themselves with a diff")

			GinkgoWriter.Printf("Example failure:\n%v\n", err)
		})
	})
})
