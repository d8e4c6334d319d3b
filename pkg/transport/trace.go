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

package transport

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// createTraceParent creates a W3C traceparent header value.  A fresh trace
// per request means a failing request can be found in the service logs.
func createTraceParent() string {
	trace := uuid.New()
	span := uuid.New()

	return fmt.Sprintf("00-%s-%s-01", hex.EncodeToString(trace[:]), hex.EncodeToString(span[:8]))
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}
