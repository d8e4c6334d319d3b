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

// Package logging provides the logging capability that is handed to every
// component of the test suite. There is no package level logger, callers
// construct one at start up and pass it down.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ErrUnknownLevel is returned by ParseLevel for names outside the
// debug, info, warn and error vocabulary.
var ErrUnknownLevel = errors.New("unknown log level")

// Logger is the levelled logging interface consumed by the suite.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)

// New returns a colourised logger writing to w at the given minimum level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339Nano,
	}))
}

// NewPlain is New without colour codes, for writers that are not terminals.
func NewPlain(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339Nano,
		NoColor:    true,
	}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps the LOG_LEVEL vocabulary (debug, info, warn, error) onto
// slog levels. Matching is case insensitive.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Mask hides all but the first and last characters of a sensitive value.
func Mask(value string) string {
	if len(value) <= 2 {
		return "***"
	}

	return value[:1] + "***" + value[len(value)-1:]
}
