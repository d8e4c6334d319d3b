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

package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Entry is one captured log record.
type Entry struct {
	Time    time.Time      `json:"timestamp"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

type captureStore struct {
	entries []Entry
	lock    sync.Mutex
}

// Capture is a slog.Handler that keeps every record in memory so tests can
// assert on what was logged, and so a failed run can dump its history.
type Capture struct {
	store  *captureStore
	level  slog.Level
	attrs  []slog.Attr
	prefix string
}

var _ slog.Handler = (*Capture)(nil)

// NewCapture returns a handler recording records at or above level.
func NewCapture(level slog.Level) *Capture {
	return &Capture{
		store: &captureStore{},
		level: level,
	}
}

// Logger wraps the handler in a *slog.Logger.
func (c *Capture) Logger() *slog.Logger {
	return slog.New(c)
}

func (c *Capture) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level
}

//nolint:gocritic // slog.Handler signature
func (c *Capture) Handle(_ context.Context, r slog.Record) error {
	entry := Entry{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
	}

	fields := map[string]any{}

	for _, a := range c.attrs {
		fields[c.prefix+a.Key] = a.Value.Resolve().Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		fields[c.prefix+a.Key] = a.Value.Resolve().Any()
		return true
	})

	if len(fields) > 0 {
		entry.Context = fields
	}

	c.store.lock.Lock()
	c.store.entries = append(c.store.entries, entry)
	c.store.lock.Unlock()

	return nil
}

func (c *Capture) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *c
	clone.attrs = append(append([]slog.Attr(nil), c.attrs...), attrs...)

	return &clone
}

func (c *Capture) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}

	clone := *c
	clone.prefix = c.prefix + name + "."

	return &clone
}

// Entries returns a snapshot of the captured records.
func (c *Capture) Entries() []Entry {
	c.store.lock.Lock()
	defer c.store.lock.Unlock()

	return append([]Entry(nil), c.store.entries...)
}

// Messages returns just the messages, in order.
func (c *Capture) Messages() []string {
	entries := c.Entries()
	out := make([]string, len(entries))

	for i := range entries {
		out[i] = entries[i].Message
	}

	return out
}

// Clear drops everything captured so far.
func (c *Capture) Clear() {
	c.store.lock.Lock()
	c.store.entries = nil
	c.store.lock.Unlock()
}

// JSON exports the captured records as an indented JSON array.
func (c *Capture) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(c.Entries(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling log entries: %w", err)
	}

	return data, nil
}

// Text exports the captured records one per line.
func (c *Capture) Text() string {
	var b strings.Builder

	for _, e := range c.Entries() {
		fmt.Fprintf(&b, "[%s] [%s] %s", e.Time.Format(timestampFormat), e.Level, e.Message)

		if len(e.Context) > 0 {
			keys := make([]string, 0, len(e.Context))
			for k := range e.Context {
				keys = append(keys, k)
			}

			sort.Strings(keys)

			for _, k := range keys {
				fmt.Fprintf(&b, " %s=%v", k, e.Context[k])
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}
