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

package mockapi

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"k8s.io/utils/ptr"
)

// Post is the wire shape of a stored post.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// postStore is an in-memory post collection. Every server gets a fresh one
// so suites never observe each other's writes.
type postStore struct {
	mu     sync.Mutex
	posts  map[int]Post
	nextID int
}

func newPostStore() *postStore {
	store := &postStore{
		posts: map[int]Post{},
	}

	for _, post := range seedPosts() {
		store.posts[post.ID] = post

		if post.ID >= store.nextID {
			store.nextID = post.ID + 1
		}
	}

	return store
}

// seedPosts returns the deterministic dataset every fresh server starts
// with.
func seedPosts() []Post {
	return []Post{
		{ID: 1, UserID: 1, Title: "sunt aut facere repellat", Body: "quia et suscipit recusandae consequuntur"},
		{ID: 2, UserID: 1, Title: "qui est esse", Body: "est rerum tempore vitae sequi sint"},
		{ID: 3, UserID: 1, Title: "ea molestias quasi exercitationem", Body: "et iusto sed quo iure"},
		{ID: 4, UserID: 2, Title: "eum et est occaecati", Body: "ullam et saepe reiciendis voluptatem"},
		{ID: 5, UserID: 2, Title: "nesciunt quas odio", Body: "repudiandae veniam quaerat sunt sed"},
	}
}

// list handles GET /posts, optionally filtered by the userId query
// parameter.
func (s *postStore) list(w http.ResponseWriter, r *http.Request) {
	var userID *int

	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "userId must be an integer")
			return
		}

		userID = ptr.To(parsed)
	}

	s.mu.Lock()

	posts := make([]Post, 0, len(s.posts))

	for _, post := range s.posts {
		if userID != nil && post.UserID != *userID {
			continue
		}

		posts = append(posts, post)
	}

	s.mu.Unlock()

	slices.SortFunc(posts, func(a, b Post) int {
		return a.ID - b.ID
	})

	writeJSON(w, http.StatusOK, posts)
}

// get handles GET /posts/{postID}.
func (s *postStore) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	s.mu.Lock()
	post, ok := s.posts[id]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// create handles POST /posts, assigning the next free identifier.
func (s *postStore) create(w http.ResponseWriter, r *http.Request) {
	var post Post

	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if post.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	post.ID = s.nextID
	s.nextID++
	s.posts[post.ID] = post
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, post)
}

// update handles PUT /posts/{postID}, replacing the stored post wholesale.
func (s *postStore) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	var post Post

	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if post.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	post.ID = id
	s.posts[id] = post

	writeJSON(w, http.StatusOK, post)
}

// remove handles DELETE /posts/{postID}. Deleting returns an empty object,
// matching the public API this store imitates.
func (s *postStore) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	delete(s.posts, id)

	writeJSON(w, http.StatusOK, map[string]any{})
}
