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

// Package mockapi hosts a small JSON API on an httptest server so suites,
// fixtures and CLI checks can run hermetically. It serves a health probe,
// version and header-echo endpoints, an OpenAPI description of itself and a
// seeded CRUD collection of posts.
package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Version is reported by the /version endpoint.
const Version = "1.0.0"

// Server is a running mock API instance.
type Server struct {
	server *httptest.Server
	router chi.Router
}

type settings struct {
	authSecret string
	latency    time.Duration
	failures   map[string]int
}

// Option customizes a Server before it starts.
type Option func(*settings)

// WithAuthSecret requires mutating requests to carry an HS256 bearer JWT
// signed with secret.
func WithAuthSecret(secret string) Option {
	return func(s *settings) {
		s.authSecret = secret
	}
}

// WithLatency delays every response, for exercising client timeouts.
func WithLatency(delay time.Duration) Option {
	return func(s *settings) {
		s.latency = delay
	}
}

// WithFailure forces the given path to answer with a fixed error status.
func WithFailure(path string, status int) Option {
	return func(s *settings) {
		s.failures[path] = status
	}
}

// New starts a mock API server. Callers own the returned server and must
// Close it.
func New(opts ...Option) *Server {
	options := &settings{
		failures: map[string]int{},
	}

	for _, opt := range opts {
		opt(options)
	}

	store := newPostStore()

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestID)

	if options.latency > 0 {
		router.Use(injectLatency(options.latency))
	}

	if len(options.failures) > 0 {
		router.Use(forceFailures(options.failures))
	}

	router.Get("/health", handleHealth)
	router.Get("/version", handleVersion)
	router.Get("/openapi.json", handleOpenAPI)
	router.Get("/headers", handleHeaders)

	router.Route("/posts", func(r chi.Router) {
		r.Get("/", store.list)
		r.Get("/{postID}", store.get)

		r.Group(func(r chi.Router) {
			if options.authSecret != "" {
				r.Use(requireToken(options.authSecret))
			}

			r.Post("/", store.create)
			r.Put("/{postID}", store.update)
			r.Delete("/{postID}", store.remove)
		})
	})

	return &Server{
		server: httptest.NewServer(router),
		router: router,
	}
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the server down, waiting for in-flight requests to finish.
func (s *Server) Close() {
	s.server.Close()
}

// Router exposes the handler tree for in-process handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"name": "wirecheck-mockapi", "version": Version})
}

// handleHeaders echoes the request headers back, httpbin style, so suites
// can observe exactly what the client sent.
func handleHeaders(w http.ResponseWriter, r *http.Request) {
	headers := make(map[string]string, len(r.Header))

	for name, values := range r.Header {
		headers[name] = strings.Join(values, ", ")
	}

	writeJSON(w, http.StatusOK, map[string]any{"headers": headers})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
