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

package main

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/userapi/pkg/config"
)

type commandParams struct {
	baseURL  string
	username string
	password string
	logLevel string
	retries  int
	delay    time.Duration
	backoff  float64
	local    bool
}

// Read parses args, flags that are not given keep the configured values.
func (c *commandParams) Read(args []string) bool {
	fs := pflag.NewFlagSet("userapi-smoke", pflag.ContinueOnError)
	fs.StringVar(&c.baseURL, "url", "", "service URL, overrides API_BASE_URL")
	fs.StringVar(&c.username, "username", "", "login username, overrides API_USERNAME")
	fs.StringVar(&c.password, "password", "", "login password, overrides API_PASSWORD")
	fs.StringVar(&c.logLevel, "log-level", "", "one of debug, info, warn, error")
	fs.IntVar(&c.retries, "retries", 0, "attempts per API call")
	fs.DurationVar(&c.delay, "delay", 0, "delay before the first retry, e.g. 500ms")
	fs.Float64Var(&c.backoff, "backoff", 0, "delay multiplier between retries")
	fs.BoolVar(&c.local, "local", false, "run against an in-process reference service")

	// Parse errors and usage are printed by the flag set.
	return fs.Parse(args[1:]) == nil
}

// Apply overlays the flags on the loaded configuration.
func (c *commandParams) Apply(cfg *config.Config) error {
	if c.local {
		cfg.BaseURL = ""
	}

	if c.baseURL != "" && !c.local {
		cfg.BaseURL = c.baseURL
	}

	if c.username != "" {
		cfg.Username = c.username
	}

	if c.password != "" {
		cfg.Password = c.password
	}

	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	if c.retries != 0 {
		cfg.Retry.MaxRetries = c.retries
	}

	if c.delay != 0 {
		cfg.Retry.Delay = c.delay
	}

	if c.backoff != 0 {
		cfg.Retry.Backoff = c.backoff
	}

	return cfg.Complete()
}
