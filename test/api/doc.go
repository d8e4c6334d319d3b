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

// Package api provides integration test utilities for the user management API.
//
// # Separate Client Implementation
//
// The suites drive the service through pkg/userclient, a hand written client
// kept independent of any generated code.  Any legitimate change to the API
// contract must have a compensating change in the client and its embedded
// schemas, making API evolution explicit and reviewable.
//
// The client includes features tailored for integration testing:
//   - W3C trace context propagation for request correlation
//   - Schema validation of every response body
//   - Retries with exponential backoff around every call
//   - Direct access to HTTP status codes and response bodies
//
// # Environment
//
// When API_BASE_URL is unset the suites start the in-process reference
// service from pkg/fakeserver and run against it, so the suites are green on a
// developer machine without credentials.  Setting API_BASE_URL, API_USERNAME
// and API_PASSWORD points the same suites at a deployed service.
//
// # Future Improvements
//
// * Scenario tags are only exposed as Ginkgo labels.  Selecting them from the
// smoke command would let CI run the positive paths as a deployment gate.
package api
