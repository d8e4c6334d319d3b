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

// Package userclient drives the user management API.  Every call is one
// HTTP exchange wrapped in the retry executor, and every response is
// decoded and schema checked before it is returned.
package userclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/metrics"
	"github.com/unikorn-cloud/userapi/pkg/response"
	"github.com/unikorn-cloud/userapi/pkg/retry"
	"github.com/unikorn-cloud/userapi/pkg/schema"
	"github.com/unikorn-cloud/userapi/pkg/transport"
)

// Client is safe for concurrent use, although calls sharing a Client also
// share its session cookie.
type Client struct {
	requester *transport.Client
	unwrapper *response.Unwrapper
	endpoints *Endpoints
	logger    logging.Logger
	policy    retry.Policy
	retryOpts []retry.Option
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client, the retry executor and the
// response unwrapper.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPolicy sets the retry policy applied to every call.
func WithPolicy(policy retry.Policy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithRecorder counts retry attempts.
func WithRecorder(recorder *metrics.Recorder) Option {
	return func(c *Client) {
		c.retryOpts = append(c.retryOpts, retry.OnRetry(recorder.RetryHook()))
	}
}

// WithRetryOptions appends raw retry options, e.g. a clock for tests.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(c *Client) {
		c.retryOpts = append(c.retryOpts, opts...)
	}
}

// New returns a client issuing requests through requester.
func New(requester *transport.Client, opts ...Option) *Client {
	c := &Client{
		requester: requester,
		endpoints: NewEndpoints(),
		logger:    logging.Discard(),
		policy:    retry.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.unwrapper = response.NewUnwrapper(c.logger)

	c.logger.Debug("user client initialized", "baseURL", requester.BaseURL())

	return c
}

// Transport exposes the underlying requester for raw protocol level calls.
func (c *Client) Transport() *transport.Client {
	return c.requester
}

// Endpoints returns the endpoint table.
func (c *Client) Endpoints() *Endpoints {
	return c.endpoints
}

type request func(ctx context.Context) (*transport.Response, error)

// call runs one retried exchange.
func call[T any](ctx context.Context, c *Client, name string, def schema.Definition, do request) (*response.Envelope[T], error) {
	opts := append([]retry.Option{
		retry.WithPolicy(c.policy),
		retry.WithLogger(c.logger),
	}, c.retryOpts...)

	return retry.Do(ctx, func(ctx context.Context) (*response.Envelope[T], error) {
		resp, err := do(ctx)
		if err != nil {
			return nil, err
		}

		c.logger.Debug(name+" API response received", "status", resp.StatusCode(), "statusText", resp.StatusText(), "traceID", resp.TraceID())

		return response.Unwrap[T](c.unwrapper, resp, def)
	}, opts...)
}

// Login authenticates, the session is kept by the client for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*response.Envelope[APIResponse], error) {
	c.logger.Info("user login attempt", "username", username, "password", logging.Mask(password))

	envelope, err := call[APIResponse](ctx, c, "Login", ResponseSchema, func(ctx context.Context) (*transport.Response, error) {
		return c.requester.Get(ctx, c.endpoints.Login(), transport.Options{
			Params: url.Values{
				"username": {username},
				"password": {password},
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return envelope, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) (*response.Envelope[APIResponse], error) {
	c.logger.Info("user logout attempt")

	envelope, err := call[APIResponse](ctx, c, "Logout", ResponseSchema, func(ctx context.Context) (*transport.Response, error) {
		return c.requester.Get(ctx, c.endpoints.Logout(), transport.Options{})
	})
	if err != nil {
		return nil, fmt.Errorf("logging out: %w", err)
	}

	return envelope, nil
}

// CreateUser creates a user.  The payload is usually a User, but anything
// that marshals to JSON is sent as is.
func (c *Client) CreateUser(ctx context.Context, payload any) (*response.Envelope[APIResponse], error) {
	c.logger.Info("create user attempt")

	envelope, err := call[APIResponse](ctx, c, "Create User", ResponseSchema, func(ctx context.Context) (*transport.Response, error) {
		return c.requester.Post(ctx, c.endpoints.CreateUser(), transport.Options{Data: payload})
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return envelope, nil
}

// GetUser retrieves a user.  Any body that is not a complete user, error
// bodies included, fails schema validation.
func (c *Client) GetUser(ctx context.Context, username string) (*response.Envelope[User], error) {
	c.logger.Info("get user attempt: " + username)

	envelope, err := call[User](ctx, c, "Get User", UserSchema, func(ctx context.Context) (*transport.Response, error) {
		return c.requester.Get(ctx, c.endpoints.GetUser(username), transport.Options{})
	})
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}

	return envelope, nil
}

// UpdateUser replaces a user, possibly renaming it.
func (c *Client) UpdateUser(ctx context.Context, username string, payload any) (*response.Envelope[APIResponse], error) {
	c.logger.Info("update user attempt: " + username)

	envelope, err := call[APIResponse](ctx, c, "Update User", ResponseSchema, func(ctx context.Context) (*transport.Response, error) {
		return c.requester.Put(ctx, c.endpoints.UpdateUser(username), transport.Options{Data: payload})
	})
	if err != nil {
		return nil, fmt.Errorf("updating user %q: %w", username, err)
	}

	return envelope, nil
}

// DeleteUser deletes a user.
func (c *Client) DeleteUser(ctx context.Context, username string) (*response.Envelope[APIResponse], error) {
	c.logger.Info("delete user attempt: " + username)

	envelope, err := call[APIResponse](ctx, c, "Delete User", ResponseSchema, func(ctx context.Context) (*transport.Response, error) {
		return c.requester.Delete(ctx, c.endpoints.DeleteUser(username), transport.Options{})
	})
	if err != nil {
		return nil, fmt.Errorf("deleting user %q: %w", username, err)
	}

	return envelope, nil
}
