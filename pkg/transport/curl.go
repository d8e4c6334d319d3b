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
	"net/http"
	"sort"

	"github.com/alessio/shellescape"

	"github.com/unikorn-cloud/userapi/pkg/logging"
)

// reproducer renders a request as a shell command so it can be replayed by
// hand.  Credentials in the Authorization header, the query string and the
// body are masked.
func reproducer(req *http.Request, payload []byte) string {
	args := []string{"curl", "-X", req.Method}

	keys := make([]string, 0, len(req.Header))
	for k := range req.Header {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range req.Header[k] {
			if k == "Authorization" {
				v = logging.Mask(v)
			}

			args = append(args, "-H", k+": "+v)
		}
	}

	if len(payload) > 0 {
		args = append(args, "--data", string(redactBody(payload)))
	}

	args = append(args, redactURL(req.URL))

	return shellescape.QuoteCommand(args)
}
