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

// Package retry runs an operation a bounded number of times, sleeping and
// optionally backing off between failed attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownFailure is returned when no attempt was made and so there is no
// underlying error to report.
var ErrUnknownFailure = errors.New("retry failed with unknown error")

// Operation is a single attempt.
type Operation[T any] func(ctx context.Context) (T, error)

// ConditionError is raised for an attempt that succeeded but whose result
// the retry predicate rejected.
type ConditionError struct {
	Attempt int
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("retry condition triggered on attempt %d", e.Attempt)
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeRetryRequested
	outcomeFailure
)

type outcome[T any] struct {
	kind  outcomeKind
	value T
	err   error
}

func attempt[T any](ctx context.Context, op Operation[T], retryOn func(T) bool, n int) outcome[T] {
	value, err := op(ctx)
	if err != nil {
		return outcome[T]{kind: outcomeFailure, err: err}
	}

	if retryOn != nil && retryOn(value) {
		return outcome[T]{kind: outcomeRetryRequested, value: value, err: &ConditionError{Attempt: n}}
	}

	return outcome[T]{kind: outcomeSuccess, value: value}
}

// Do executes op up to the configured number of attempts.  It returns the
// first accepted result, or the error of the final attempt.  It never
// returns a nil error without a result.
func Do[T any](ctx context.Context, op Operation[T], opts ...Option) (T, error) {
	return DoWith(ctx, op, nil, opts...)
}

// DoWith is Do with a result predicate.  A successful result for which
// retryOn returns true is treated as a failed attempt with a ConditionError.
// A nil retryOn accepts every successful result.
func DoWith[T any](ctx context.Context, op Operation[T], retryOn func(T) bool, opts ...Option) (T, error) {
	cfg := newConfig(opts...)

	var zero T

	var lastErr error

	delay := cfg.policy.Delay

	cfg.logger.Debug("retry operation started", "maxRetries", cfg.policy.Retries, "initialDelay", delay)

	for n := 1; n <= cfg.policy.Retries; n++ {
		cfg.logger.Debug(fmt.Sprintf("retry attempt %d/%d", n, cfg.policy.Retries))

		result := attempt(ctx, op, retryOn, n)

		switch result.kind {
		case outcomeSuccess:
			cfg.logger.Info(fmt.Sprintf("retry operation succeeded on attempt %d", n))
			cfg.observe(n, OutcomeSuccess, nil, 0)

			return result.value, nil
		case outcomeRetryRequested:
			cfg.logger.Warn(fmt.Sprintf("custom retry condition triggered on attempt %d", n))
		case outcomeFailure:
		}

		lastErr = result.err

		if n == cfg.policy.Retries {
			cfg.logger.Error(fmt.Sprintf("retry operation failed after %d attempts", cfg.policy.Retries), "error", lastErr, "finalAttempt", n)
			cfg.observe(n, OutcomeExhausted, lastErr, 0)

			return zero, lastErr
		}

		cfg.logger.Warn(fmt.Sprintf("attempt %d failed, retrying", n), "error", lastErr, "nextDelay", delay)
		cfg.observe(n, OutcomeRetry, lastErr, delay)

		if err := cfg.clock.Sleep(ctx, delay); err != nil {
			return zero, errors.Join(lastErr, err)
		}

		if cfg.policy.Backoff > 1 {
			delay = time.Duration(float64(delay) * cfg.policy.Backoff)
			cfg.logger.Debug("backoff applied", "nextDelay", delay)
		}
	}

	if lastErr != nil {
		return zero, lastErr
	}

	return zero, ErrUnknownFailure
}
