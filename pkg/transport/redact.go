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
	"encoding/json"
	"net/url"
	"strings"

	"github.com/unikorn-cloud/userapi/pkg/logging"
)

// sensitive names query parameters and JSON fields whose values never reach
// logs or errors in clear text.
//
//nolint:gochecknoglobals
var sensitive = map[string]bool{
	"password": true,
	"token":    true,
}

func isSensitive(name string) bool {
	return sensitive[strings.ToLower(name)]
}

// redactURL renders u with sensitive query values masked.  Parameter order
// and encoding of everything else is preserved.
func redactURL(u *url.URL) string {
	if u.RawQuery == "" {
		return u.String()
	}

	redacted := *u

	pairs := strings.Split(u.RawQuery, "&")

	for i, pair := range pairs {
		rawKey, rawValue, found := strings.Cut(pair, "=")
		if !found {
			continue
		}

		key, err := url.QueryUnescape(rawKey)
		if err != nil || !isSensitive(key) {
			continue
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}

		pairs[i] = rawKey + "=" + logging.Mask(value)
	}

	redacted.RawQuery = strings.Join(pairs, "&")

	return redacted.String()
}

// redactBody masks sensitive fields of a JSON payload at any depth.  Bodies
// that are not JSON are returned unchanged.
func redactBody(payload []byte) []byte {
	var document any

	if err := json.Unmarshal(payload, &document); err != nil {
		return payload
	}

	if !redactValue(document) {
		return payload
	}

	out, err := json.Marshal(document)
	if err != nil {
		return payload
	}

	return out
}

func redactValue(value any) bool {
	changed := false

	switch v := value.(type) {
	case map[string]any:
		for key, member := range v {
			if s, ok := member.(string); ok && isSensitive(key) {
				v[key] = logging.Mask(s)
				changed = true

				continue
			}

			changed = redactValue(member) || changed
		}
	case []any:
		for _, member := range v {
			changed = redactValue(member) || changed
		}
	}

	return changed
}
