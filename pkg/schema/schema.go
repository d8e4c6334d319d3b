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

// Package schema checks decoded JSON payloads against declarative JSON
// schema documents.  Schemas are kept as data, the payloads they describe
// have no static Go type as far as this package is concerned.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/unikorn-cloud/userapi/pkg/logging"
)

var (
	// ErrInvalidSchema is returned when a definition cannot be compiled.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnsupportedData is returned when the payload is not representable
	// as JSON.
	ErrUnsupportedData = errors.New("unsupported data")
)

// Definition is a JSON schema document, the draft-07 subset understood by
// OpenAPI 3 (type, required, properties, additionalProperties, minLength
// and friends).
type Definition []byte

// Violation is one failed constraint.
type Violation struct {
	// DataPath is a JSON pointer into the payload, empty for the root.
	DataPath string `json:"dataPath"`
	// SchemaPath locates the failed keyword in the schema document.
	SchemaPath string `json:"schemaPath"`
	Message    string `json:"message"`
}

// ValidationError carries every violation found in a payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	data, err := json.MarshalIndent(e.Violations, "", "  ")
	if err != nil {
		return fmt.Sprintf("schema validation failed: %v", e.Violations)
	}

	return "schema validation failed: " + string(data)
}

// Schema is a compiled definition.
type Schema struct {
	schema *openapi3.Schema
}

// Compile parses and checks a definition.  It does not modify def.
func Compile(def Definition) (*Schema, error) {
	var document map[string]any

	if err := json.Unmarshal(def, &document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	// Dialect markers are meaningful to JSON schema tooling only.
	delete(document, "$schema")
	delete(document, "$id")

	normalized, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	s := &openapi3.Schema{}

	if err := json.Unmarshal(normalized, s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	if err := s.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package level schema tables.
func MustCompile(def Definition) *Schema {
	s, err := Compile(def)
	if err != nil {
		panic(err)
	}

	return s
}

// Check validates data, which may be any value that marshals to JSON.
func (s *Schema) Check(data any) error {
	value, err := normalize(data)
	if err != nil {
		return err
	}

	err = s.schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	violations := flatten(err)

	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.DataPath != b.DataPath {
			return a.DataPath < b.DataPath
		}

		if a.SchemaPath != b.SchemaPath {
			return a.SchemaPath < b.SchemaPath
		}

		return a.Message < b.Message
	})

	return &ValidationError{Violations: violations}
}

// normalize converts Go values into the shapes produced by encoding/json so
// integers, structs and typed maps are judged as their JSON form.
func normalize(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedData, err)
	}

	var value any

	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedData, err)
	}

	return value, nil
}

func flatten(err error) []Violation {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Violation

		for _, e := range multi {
			out = append(out, flatten(e)...)
		}

		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		owner := pointer
		keyword := schemaErr.SchemaField

		switch keyword {
		case "required":
			// The missing key is appended to the pointer.
			if len(owner) > 0 {
				owner = owner[:len(owner)-1]
			}
		case "properties", "additionalProperties":
			// The pointer names the object, the key only appears in the reason.
			keyword = "additionalProperties"

			if key, ok := unsupportedKey(schemaErr.Reason); ok {
				pointer = append(slices.Clone(pointer), key)
			}
		}

		return []Violation{
			{
				DataPath:   dataPath(pointer),
				SchemaPath: schemaPath(owner, keyword),
				Message:    schemaErr.Reason,
			},
		}
	}

	return []Violation{{SchemaPath: "#", Message: err.Error()}}
}

var unsupportedPattern = regexp.MustCompile(`^property ("(?:[^"\\]|\\.)*") is unsupported$`)

func escape(token string) string {
	return strings.ReplaceAll(strings.ReplaceAll(token, "~", "~0"), "/", "~1")
}

func dataPath(pointer []string) string {
	var b strings.Builder

	for _, token := range pointer {
		b.WriteString("/")
		b.WriteString(escape(token))
	}

	return b.String()
}

// unsupportedKey recovers the key named by an unsupported property reason,
// e.g. `property "extra" is unsupported`.
func unsupportedKey(reason string) (string, bool) {
	match := unsupportedPattern.FindStringSubmatch(reason)
	if match == nil {
		return "", false
	}

	key, err := strconv.Unquote(match[1])
	if err != nil {
		return "", false
	}

	return key, true
}

// schemaPath maps a failing keyword on the object at owner back to its
// location in the document.
func schemaPath(owner []string, keyword string) string {
	parts := []string{"#"}

	for _, token := range owner {
		if _, err := strconv.Atoi(token); err == nil {
			parts = append(parts, "items")
			continue
		}

		parts = append(parts, "properties", escape(token))
	}

	if keyword != "" {
		parts = append(parts, keyword)
	}

	return strings.Join(parts, "/")
}

// Validator compiles and checks in one step, logging the outcome.
type Validator struct {
	logger logging.Logger
}

// NewValidator returns a validator that reports through logger.
func NewValidator(logger logging.Logger) *Validator {
	return &Validator{
		logger: logger,
	}
}

// Validate compiles def and checks data against it.  A nil return is the
// pass verdict; a failing payload yields a *ValidationError.
func (v *Validator) Validate(def Definition, data any) error {
	v.logger.Debug("schema validation initiated")

	s, err := Compile(def)
	if err != nil {
		v.logger.Error("schema compilation failed", "error", err)
		return err
	}

	if err := s.Check(data); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			v.logger.Error("schema validation failed", "errorCount", len(validationErr.Violations), "violations", validationErr.Violations)
		}

		return err
	}

	v.logger.Debug("schema validation passed")

	return nil
}

// Validate is Validator.Validate without logging.
func Validate(def Definition, data any) error {
	return NewValidator(logging.Discard()).Validate(def, data)
}
