/*
Copyright 2026 Nscale.

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

// Package fakeserver is an in-memory implementation of the user management
// API, used to run the suites hermetically.  It behaves the way the suites
// expect a correct service to behave.
package fakeserver

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/userclient"
)

// Options configure the reference service.
type Options struct {
	// Username and Password are seeded as a login account.
	Username string
	Password string

	Logger logging.Logger
}

// Account is the seeded user for the given credentials.
func Account(username, password string) userclient.User {
	return userclient.User{
		ID:         1,
		Username:   username,
		FirstName:  "QA",
		LastName:   "Automation",
		Email:      username + "@example.com",
		Password:   password,
		Phone:      userclient.DefaultPhone,
		UserStatus: userclient.DefaultUserStatus,
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Debug("reference service request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start), "traceparent", r.Header.Get("Traceparent"))
	})
}

// NewRouter mounts the API on a chi router.
func NewRouter(h *Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.logRequests)
	router.NotFound(h.NotFound)
	router.MethodNotAllowed(h.MethodNotAllowed)

	// Session endpoints accept any method so wrong ones get a 405 rather
	// than being routed as a username.
	router.HandleFunc("/v2/user/login", h.Login)
	router.HandleFunc("/v2/user/logout", h.Logout)

	router.Post("/v2/user", h.CreateUser)
	router.Get("/v2/user/{username}", h.GetUser)
	router.Put("/v2/user/{username}", h.UpdateUser)
	router.Delete("/v2/user/{username}", h.DeleteUser)

	return router
}

// New returns the service as a handler.
func New(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	var accounts []userclient.User

	if opts.Username != "" {
		accounts = append(accounts, Account(opts.Username, opts.Password))
	}

	return NewRouter(NewHandler(NewStore(accounts...), logger))
}

// Start serves the service on a loopback port.  Close the server when done.
func Start(opts Options) *httptest.Server {
	return httptest.NewServer(New(opts))
}
