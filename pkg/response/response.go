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

//go:generate mockgen -source=response.go -destination=mock/interfaces.go -package=mock

// Package response turns raw HTTP responses into typed, validated envelopes.
package response

import (
	"encoding/json"
	"fmt"

	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/schema"
)

// Raw is the subset of an HTTP response needed to build an envelope.
type Raw interface {
	// StatusCode is the numeric HTTP status.
	StatusCode() int
	// StatusText is the reason phrase.
	StatusText() string
	// OK is true for 2xx statuses.
	OK() bool
	// JSON decodes the response body into v.
	JSON(v any) error
}

// Envelope is a decoded response.  It is only ever built from a body that
// decoded (and validated, when asked to) successfully.
type Envelope[T any] struct {
	Status int
	OK     bool
	Body   T
}

// Unwrapper decodes and validates responses.
type Unwrapper struct {
	logger    logging.Logger
	validator *schema.Validator
}

// NewUnwrapper returns an unwrapper that validates with a schema validator
// sharing the same logger.
func NewUnwrapper(logger logging.Logger) *Unwrapper {
	return &Unwrapper{
		logger:    logger,
		validator: schema.NewValidator(logger),
	}
}

// Unwrap decodes the body of raw, validates it against def when def is not
// nil, and returns the envelope.  Decode and validation errors are returned
// as is, in which case there is no envelope.
func Unwrap[T any](u *Unwrapper, raw Raw, def schema.Definition) (*Envelope[T], error) {
	u.logger.Debug("wrapping API response", "status", raw.StatusCode(), "statusText", raw.StatusText(), "hasSchema", def != nil)

	var body json.RawMessage

	if err := raw.JSON(&body); err != nil {
		u.logger.Error("error wrapping response", "error", err, "status", raw.StatusCode())
		return nil, err
	}

	if def != nil {
		var document any

		if err := json.Unmarshal(body, &document); err != nil {
			u.logger.Error("error wrapping response", "error", err, "status", raw.StatusCode())
			return nil, err
		}

		if err := u.validator.Validate(def, document); err != nil {
			u.logger.Error("error wrapping response", "error", err, "status", raw.StatusCode())
			return nil, err
		}

		u.logger.Info("response schema validated")
	}

	var typed T

	if err := json.Unmarshal(body, &typed); err != nil {
		u.logger.Error("error wrapping response", "error", err, "status", raw.StatusCode())
		return nil, fmt.Errorf("response body does not fit %T: %w", typed, err)
	}

	envelope := &Envelope[T]{
		Status: raw.StatusCode(),
		OK:     raw.OK(),
		Body:   typed,
	}

	u.logger.Debug("response wrapped successfully", "status", envelope.Status, "ok", envelope.OK)

	return envelope, nil
}
