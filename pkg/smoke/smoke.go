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

// Package smoke runs the user lifecycle once against a service and reports
// each step, for use as a deployment gate.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/transport"
	"github.com/unikorn-cloud/userapi/pkg/userclient"
)

// ErrUnexpectedResponse is returned when a step gets a well formed response
// that is not the one expected.
var ErrUnexpectedResponse = errors.New("unexpected response")

// Result is the outcome of one step.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed is true if the step succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Report is the outcome of a run.
type Report struct {
	Results []Result
}

// Failed is true if any step failed.
func (r *Report) Failed() bool {
	for _, result := range r.Results {
		if !result.Passed() {
			return true
		}
	}

	return false
}

// Observer is notified as each step finishes.
type Observer func(Result)

// Runner runs the smoke flow.
type Runner struct {
	client   *userclient.Client
	username string
	password string
	logger   logging.Logger
	observer Observer
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithObserver reports each step as it finishes.
func WithObserver(observer Observer) Option {
	return func(r *Runner) {
		r.observer = observer
	}
}

// New returns a runner that logs in with the given credentials.
func New(client *userclient.Client, username, password string, opts ...Option) *Runner {
	r := &Runner{
		client:   client,
		username: username,
		password: password,
		logger:   logging.Discard(),
		observer: func(Result) {},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

func unexpected(status int, message string) error {
	return fmt.Errorf("%w: status %d: %s", ErrUnexpectedResponse, status, message)
}

// Run executes every step in order and stops at the first failure.  Anything
// created along the way is removed before returning.
func (r *Runner) Run(ctx context.Context) *Report {
	user := userclient.NewUserPayload(userclient.Overrides{})
	updated := user
	updated.FirstName = "Smoke"
	updated.LastName = "Updated"

	var loggedIn, created bool

	steps := []step{
		{"login", func(ctx context.Context) error {
			resp, err := r.client.Login(ctx, r.username, r.password)
			if err != nil {
				return err
			}

			if resp.Status != http.StatusOK || !strings.HasPrefix(resp.Body.Message, "logged in user session:") {
				return unexpected(resp.Status, resp.Body.Message)
			}

			loggedIn = true

			return nil
		}},
		{"create user", func(ctx context.Context) error {
			resp, err := r.client.CreateUser(ctx, user)
			if err != nil {
				return err
			}

			if resp.Status != http.StatusOK {
				return unexpected(resp.Status, resp.Body.Message)
			}

			created = true

			if resp.Body.Message != strconv.FormatInt(user.ID, 10) {
				return unexpected(resp.Status, "created id "+resp.Body.Message)
			}

			return nil
		}},
		{"get user", func(ctx context.Context) error {
			return r.expectUser(ctx, user)
		}},
		{"update user", func(ctx context.Context) error {
			resp, err := r.client.UpdateUser(ctx, user.Username, updated)
			if err != nil {
				return err
			}

			if resp.Status != http.StatusOK {
				return unexpected(resp.Status, resp.Body.Message)
			}

			return r.expectUser(ctx, updated)
		}},
		{"delete user", func(ctx context.Context) error {
			resp, err := r.client.DeleteUser(ctx, user.Username)
			if err != nil {
				return err
			}

			if resp.Status != http.StatusOK {
				return unexpected(resp.Status, resp.Body.Message)
			}

			created = false

			return r.expectMissing(ctx, user.Username)
		}},
		{"logout", func(ctx context.Context) error {
			resp, err := r.client.Logout(ctx)
			if err != nil {
				return err
			}

			if resp.Status != http.StatusOK {
				return unexpected(resp.Status, resp.Body.Message)
			}

			loggedIn = false

			return nil
		}},
	}

	report := &Report{}

	for _, s := range steps {
		r.logger.Info("smoke step started", "step", s.name)

		start := time.Now()
		err := s.run(ctx)
		result := Result{Name: s.name, Err: err, Duration: time.Since(start)}

		report.Results = append(report.Results, result)
		r.observer(result)

		if err != nil {
			r.logger.Error("smoke step failed", "step", s.name, "error", err)
			break
		}
	}

	r.cleanup(ctx, user.Username, created, loggedIn)

	return report
}

func (r *Runner) expectUser(ctx context.Context, expected userclient.User) error {
	resp, err := r.client.GetUser(ctx, expected.Username)
	if err != nil {
		return err
	}

	actual := resp.Body

	if actual.Username != expected.Username || actual.FirstName != expected.FirstName || actual.LastName != expected.LastName || actual.Email != expected.Email {
		return fmt.Errorf("%w: got user %s %s (%s), expected %s %s (%s)", ErrUnexpectedResponse,
			actual.FirstName, actual.LastName, actual.Username, expected.FirstName, expected.LastName, expected.Username)
	}

	return nil
}

func (r *Runner) expectMissing(ctx context.Context, username string) error {
	resp, err := r.client.Transport().Get(ctx, r.client.Endpoints().GetUser(username), transport.Options{})
	if err != nil {
		return err
	}

	if resp.StatusCode() != http.StatusNotFound {
		return unexpected(resp.StatusCode(), "user still exists after deletion")
	}

	return nil
}

func (r *Runner) cleanup(ctx context.Context, username string, created, loggedIn bool) {
	if created {
		if _, err := r.client.DeleteUser(ctx, username); err != nil {
			r.logger.Warn("failed to clean up user", "username", username, "error", err)
		}
	}

	if loggedIn {
		if _, err := r.client.Logout(ctx); err != nil {
			r.logger.Warn("failed to clean up session", "error", err)
		}
	}
}
