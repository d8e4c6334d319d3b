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
	"net/http"
	"strconv"
	"strings"
)

// Response is a fully read HTTP response.
type Response struct {
	status      int
	statusText  string
	header      http.Header
	body        []byte
	traceParent string
}

func newResponse(resp *http.Response, body []byte, traceParent string) *Response {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text == "" || text == resp.Status {
		text = http.StatusText(resp.StatusCode)
	}

	return &Response{
		status:      resp.StatusCode,
		statusText:  text,
		header:      resp.Header,
		body:        body,
		traceParent: traceParent,
	}
}

// StatusCode is the HTTP status.
func (r *Response) StatusCode() int {
	return r.status
}

// StatusText is the reason phrase, e.g. "Not Found".
func (r *Response) StatusText() string {
	return r.statusText
}

// OK is true for 2xx statuses.
func (r *Response) OK() bool {
	return r.status >= 200 && r.status < 300
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.body, v)
}

// Body is the raw response body.
func (r *Response) Body() []byte {
	return r.body
}

// Header returns the response headers.
func (r *Response) Header() http.Header {
	return r.header
}

// TraceID identifies the request in service logs.
func (r *Response) TraceID() string {
	return extractTraceID(r.traceParent)
}
