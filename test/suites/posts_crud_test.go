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
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wirecheck/wirecheck/pkg/client"
	"github.com/wirecheck/wirecheck/pkg/expect"
	"github.com/wirecheck/wirecheck/pkg/fixtures"
	"github.com/wirecheck/wirecheck/pkg/mockapi"
)

var _ = Describe("Post Operations", func() {
	Context("When listing posts", func() {
		It("should return the seeded collection", func() {
			resp, err := api.Get(ctx, "/posts")

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())
			Expect(expect.ListNotEmpty(resp, "")).To(Succeed())

			var posts []mockapi.Post

			Expect(resp.JSON(&posts)).To(Succeed())

			fixtures.VerifyPostPresence(posts, 1, 2, 3, 4, 5)
			GinkgoWriter.Printf("Found %d posts\n", len(posts))
		})

		It("should filter posts by author", func() {
			resp, err := api.Get(ctx, "/posts", client.WithQuery("userId", 2))

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())

			var posts []mockapi.Post

			Expect(resp.JSON(&posts)).To(Succeed())
			Expect(posts).NotTo(BeEmpty(), "Author 2 should have seeded posts")

			for _, post := range posts {
				Expect(post.UserID).To(Equal(2), "Post %d should belong to author 2", post.ID)
			}
		})

		It("should reject a malformed author filter", func() {
			resp, err := api.Get(ctx, "/posts", client.WithQuery("userId", "not-a-number"))

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusBadRequest)).To(Succeed())
		})
	})

	Context("When reading a single post", func() {
		It("should return the post with all fields", func() {
			resp, err := api.Get(ctx, "/posts/1")

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())
			Expect(expect.JSONKeys(resp, "id", "userId", "title", "body")).To(Succeed())
			Expect(expect.JSONContains(resp, map[string]any{"id": 1, "userId": 1})).To(Succeed())
		})

		DescribeTable("reading seeded posts by ID",
			func(postID int) {
				resp, err := api.Get(ctx, fmt.Sprintf("/posts/%d", postID))

				Expect(err).NotTo(HaveOccurred())
				Expect(expect.Status(resp, http.StatusOK)).To(Succeed())
				Expect(expect.JSONContains(resp, map[string]any{"id": postID})).To(Succeed())
			},
			Entry("first post", 1),
			Entry("middle post", 3),
			Entry("last seeded post", 5),
		)

		It("should return 404 for a post that does not exist", func() {
			resp, err := api.Get(ctx, "/posts/99999")

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusNotFound)).To(Succeed())
			Expect(expect.JSONContains(resp, map[string]any{"error": "post not found"})).To(Succeed())
		})

		It("should return 404 for a malformed post ID", func() {
			resp, err := api.Get(ctx, "/posts/not-an-id")

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusNotFound)).To(Succeed())
		})
	})

	Context("When creating posts", func() {
		It("should create a post and make it listable", func() {
			payload := fixtures.NewPostPayload().
				WithTitle("created by the CRUD suite").
				Build()

			post := fixtures.CreatePostWithCleanup(ctx, api, payload)

			Expect(post.ID).To(BeNumerically(">", 5), "New posts should get IDs after the seeded range")
			Expect(post.Title).To(Equal("created by the CRUD suite"))

			resp, err := api.Get(ctx, "/posts")
			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())

			var posts []mockapi.Post

			Expect(resp.JSON(&posts)).To(Succeed())

			fixtures.VerifyPostPresence(posts, post.ID)
		})

		It("should assign a fresh ID to every post", func() {
			first := fixtures.CreatePostWithCleanup(ctx, api, fixtures.NewPostPayload().Build())
			second := fixtures.CreatePostWithCleanup(ctx, api, fixtures.NewPostPayload().Build())

			Expect(second.ID).To(Equal(first.ID+1), "IDs should be assigned sequentially")
		})

		It("should reject a post without a title", func() {
			payload := fixtures.NewPostPayload().
				WithTitle("").
				Build()

			resp, err := api.Post(ctx, "/posts", payload)

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusBadRequest)).To(Succeed())
			Expect(expect.JSONContains(resp, map[string]any{"error": "title is required"})).To(Succeed())
		})

		It("should reject a malformed body", func() {
			resp, err := api.Post(ctx, "/posts", nil,
				client.WithRawBody("application/json", []byte("{not json")))

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusBadRequest)).To(Succeed())
		})
	})

	Context("When updating a post", func() {
		var post mockapi.Post

		BeforeEach(func() {
			post = fixtures.CreatePostWithCleanup(ctx, api, fixtures.NewPostPayload().Build())

			GinkgoWriter.Printf("Using post %d for update tests\n", post.ID)
		})

		It("should replace the stored fields", func() {
			payload := fixtures.NewPostPayload().
				WithTitle("updated title").
				WithBody("updated body").
				Build()

			resp, err := api.Put(ctx, fmt.Sprintf("/posts/%d", post.ID), payload)

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())
			Expect(expect.JSONContains(resp, map[string]any{
				"id":    post.ID,
				"title": "updated title",
				"body":  "updated body",
			})).To(Succeed())

			// And: The change is visible on a subsequent read
			resp, err = api.Get(ctx, fmt.Sprintf("/posts/%d", post.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(expect.JSONField(resp, "title", "updated title")).To(Succeed())
		})

		It("should keep the path ID when the body claims another", func() {
			payload := fixtures.NewPostPayload().Build()
			payload["id"] = 1

			resp, err := api.Put(ctx, fmt.Sprintf("/posts/%d", post.ID), payload)

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())
			Expect(expect.JSONField(resp, "id", post.ID)).To(Succeed())
		})

		It("should return 404 when updating a post that does not exist", func() {
			resp, err := api.Put(ctx, "/posts/99999", fixtures.NewPostPayload().Build())

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusNotFound)).To(Succeed())
		})
	})

	Context("When deleting a post", func() {
		It("should remove the post and report 404 afterwards", func() {
			post := fixtures.CreatePostWithCleanup(ctx, api, fixtures.NewPostPayload().Build())

			resp, err := api.Delete(ctx, fmt.Sprintf("/posts/%d", post.ID))

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusOK)).To(Succeed())

			resp, err = api.Get(ctx, fmt.Sprintf("/posts/%d", post.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusNotFound)).To(Succeed())
		})

		It("should return 404 when deleting a post that does not exist", func() {
			resp, err := api.Delete(ctx, "/posts/99999")

			Expect(err).NotTo(HaveOccurred())
			Expect(expect.Status(resp, http.StatusNotFound)).To(Succeed())
		})
	})
})
