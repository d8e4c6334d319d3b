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

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unikorn-cloud/userapi/pkg/retry"
)

// StatusError labels requests that never produced an HTTP status.
const StatusError = "error"

// Recorder records API traffic.  A nil or Nop recorder records nothing.
type Recorder struct {
	// requests tracks API calls per method and status.
	requests *prometheus.CounterVec
	// duration tracks API call latency.
	duration *prometheus.HistogramVec
	// attempts tracks retry executor attempts per outcome.
	attempts *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userapi_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "userapi_request_duration_seconds",
				Help:    "API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userapi_retry_attempts_total",
				Help: "Total number of retry executor attempts",
			},
			[]string{"outcome"},
		),
	}
}

// Nop returns a recorder that discards everything.
func Nop() *Recorder {
	return nil
}

// ObserveRequest records one HTTP exchange.  A zero status means the request
// failed before a response arrived.
func (r *Recorder) ObserveRequest(method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}

	label := StatusError
	if status != 0 {
		label = strconv.Itoa(status)
	}

	r.requests.WithLabelValues(method, label).Inc()
	r.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveAttempt records one retry attempt.
func (r *Recorder) ObserveAttempt(outcome retry.Outcome) {
	if r == nil {
		return
	}

	r.attempts.WithLabelValues(string(outcome)).Inc()
}

// RetryHook adapts the recorder to the retry executor.
func (r *Recorder) RetryHook() retry.Hook {
	return func(_ int, outcome retry.Outcome, _ error, _ time.Duration) {
		r.ObserveAttempt(outcome)
	}
}
