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

package retry

import (
	"time"

	"github.com/unikorn-cloud/userapi/pkg/logging"
)

// Default values.
const (
	DefaultRetries = 3
	DefaultDelay   = 500 * time.Millisecond
	DefaultBackoff = 1.0
)

// Policy is the attempt budget and wait schedule.
type Policy struct {
	// Retries is the maximum number of attempts, including the first.
	Retries int
	// Delay is the wait after the first failed attempt.
	Delay time.Duration
	// Backoff multiplies Delay after every failed attempt when greater than 1.
	Backoff float64
}

// DefaultPolicy is three attempts, 500ms apart, without growth.
func DefaultPolicy() Policy {
	return Policy{
		Retries: DefaultRetries,
		Delay:   DefaultDelay,
		Backoff: DefaultBackoff,
	}
}

// Outcome labels what happened on an attempt, for OnRetry hooks.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeRetry     Outcome = "retry"
	OutcomeExhausted Outcome = "exhausted"
)

// Hook is called after every attempt.  delay is the wait before the next
// attempt and is zero unless outcome is OutcomeRetry.
type Hook func(attempt int, outcome Outcome, err error, delay time.Duration)

type config struct {
	policy  Policy
	clock   Clock
	logger  logging.Logger
	hooks   []Hook
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		policy: DefaultPolicy(),
		clock:  realClock{},
		logger: logging.Discard(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

func (c *config) observe(attempt int, outcome Outcome, err error, delay time.Duration) {
	for _, hook := range c.hooks {
		hook(attempt, outcome, err, delay)
	}
}

// Option configures a single Do call.
type Option func(*config)

// WithPolicy replaces the whole policy.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithRetries sets the maximum number of attempts.
func WithRetries(n int) Option {
	return func(c *config) {
		c.policy.Retries = n
	}
}

// WithDelay sets the initial wait between attempts.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.policy.Delay = d
	}
}

// WithBackoff sets the delay multiplier.
func WithBackoff(factor float64) Option {
	return func(c *config) {
		c.policy.Backoff = factor
	}
}

// WithClock sets the clock used to wait between attempts. Useful for testing.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// OnRetry adds an attempt hook.
func OnRetry(hook Hook) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hook)
	}
}
