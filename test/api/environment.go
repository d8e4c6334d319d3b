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

package api

import (
	"fmt"
	"io"
	"net/http/httptest"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unikorn-cloud/userapi/pkg/config"
	"github.com/unikorn-cloud/userapi/pkg/fakeserver"
	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/metrics"
	"github.com/unikorn-cloud/userapi/pkg/transport"
	"github.com/unikorn-cloud/userapi/pkg/userclient"
)

// Environment is the service under test and everything needed to talk to it.
type Environment struct {
	Config   *config.Config
	Logger   logging.Logger
	Registry *prometheus.Registry
	Recorder *metrics.Recorder

	baseURL string
	server  *httptest.Server
}

// NewEnvironment loads configuration and, when no base URL is configured,
// starts the reference service seeded with the configured account.  Logs are
// written to w.
func NewEnvironment(w io.Writer) (*Environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.NewPlain(w, cfg.Level())
	registry := prometheus.NewRegistry()

	env := &Environment{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Recorder: metrics.New(registry),
		baseURL:  cfg.BaseURL,
	}

	if cfg.Local() {
		env.server = fakeserver.Start(fakeserver.Options{
			Username: cfg.Username,
			Password: cfg.Password,
			Logger:   logger,
		})
		env.baseURL = env.server.URL
	}

	return env, nil
}

// BaseURL is the root of the service under test.
func (e *Environment) BaseURL() string {
	return e.baseURL
}

// Close stops the reference service, if one was started.
func (e *Environment) Close() {
	if e.server != nil {
		e.server.Close()
	}
}

// NewTransport returns a raw HTTP client with its own cookie jar.
func (e *Environment) NewTransport() (*transport.Client, error) {
	client, err := transport.New(e.baseURL,
		transport.WithTimeout(e.Config.RequestTimeout),
		transport.WithAuthToken(e.Config.AuthToken),
		transport.WithLogger(e.Logger),
		transport.WithRecorder(e.Recorder),
		transport.WithRequestLogging(e.Config.LogRequests),
		transport.WithResponseLogging(e.Config.LogResponses),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transport: %w", err)
	}

	return client, nil
}

// NewClient returns an unauthenticated user API client with its own session.
func (e *Environment) NewClient() (*userclient.Client, error) {
	requester, err := e.NewTransport()
	if err != nil {
		return nil, err
	}

	return userclient.New(requester,
		userclient.WithLogger(e.Logger),
		userclient.WithPolicy(e.Config.Policy()),
		userclient.WithRecorder(e.Recorder),
	), nil
}
