package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wirecheck/wirecheck/pkg/expect"
	"github.com/wirecheck/wirecheck/pkg/mockapi"
)

var _ = Describe("Health and Metadata", func() {
	Context("When probing the health endpoint", func() {
		It("should report the service as healthy", func() {
			// Given: A running API
			// When: I request the health endpoint
			resp, err := api.Get(ctx, "/health")

			// Then: It answers 200 with a body declaring the service healthy
			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())
			Expect(expect.JSONContains(resp, map[string]any{"status": "ok"})).To(Succeed())

			GinkgoWriter.Printf("Health answered in %s (trace %s)\n", resp.Duration, resp.TraceID)
		})

		It("should answer with a JSON content type", func() {
			resp, err := api.Get(ctx, "/health")

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.ContentType(resp, "application/json")).To(Succeed())
		})
	})

	Context("When querying version metadata", func() {
		It("should expose the service name and version", func() {
			resp, err := api.Get(ctx, "/version")

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())
			Expect(expect.JSONKeys(resp, "name", "version")).To(Succeed())
			Expect(expect.JSONField(resp, "version", mockapi.Version)).To(Succeed())
		})
	})

	Context("When fetching the API description", func() {
		It("should serve the embedded OpenAPI document", func() {
			resp, err := api.Get(ctx, "/openapi.json")

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())
			Expect(expect.ContentType(resp, "application/json")).To(Succeed())
		})

		It("should describe the responses the API actually returns", func() {
			doc, err := mockapi.Document()
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Validate(ctx)).To(Succeed())

			resp, err := api.Get(ctx, "/health")
			Expect(err).NotTo(HaveOccurred())
			Expect(expect.MatchesOpenAPI(resp, doc, http.MethodGet, "/health")).To(Succeed())

			resp, err = api.Get(ctx, "/version")
			Expect(err).NotTo(HaveOccurred())
			Expect(expect.MatchesOpenAPI(resp, doc, http.MethodGet, "/version")).To(Succeed())

			resp, err = api.Get(ctx, "/posts")
			Expect(err).NotTo(HaveOccurred())
			Expect(expect.MatchesOpenAPI(resp, doc, http.MethodGet, "/posts")).To(Succeed())
		})
	})
})
