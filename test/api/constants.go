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

package api

import "net/http"

// Expected status codes.
const (
	HTTPStatusOK                  = http.StatusOK
	HTTPStatusBadRequest          = http.StatusBadRequest
	HTTPStatusUnauthorized        = http.StatusUnauthorized
	HTTPStatusNotFound            = http.StatusNotFound
	HTTPStatusMethodNotAllowed    = http.StatusMethodNotAllowed
	HTTPStatusInternalServerError = http.StatusInternalServerError
)

// Expected response messages.
const (
	// MessageLoggedInSession prefixes the message of a successful login.
	MessageLoggedInSession = "logged in user session:"
	// MessageOK is returned by a successful logout.
	MessageOK = "ok"
	// MessageInvalidCredentials is returned for a rejected login.
	MessageInvalidCredentials = "Invalid username/password supplied"
	// MessageUserNotFound is returned when a user does not exist.
	MessageUserNotFound = "User not found"
)
