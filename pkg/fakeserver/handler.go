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

package fakeserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/schema"
	"github.com/unikorn-cloud/userapi/pkg/userclient"
)

const (
	// SessionCookie carries the session token.
	SessionCookie = "token"

	// MessageInvalidCredentials is the 401 login message.
	MessageInvalidCredentials = "Invalid username/password supplied"
	// MessageLoggedIn prefixes the session token in a successful login.
	MessageLoggedIn = "logged in user session:"
	// MessageUserNotFound is the 404 user retrieval message.
	MessageUserNotFound = "User not found"

	typeUnknown = "unknown"
	typeError   = "error"

	// codeNotFound is the body code of a missing user, not an HTTP status.
	codeNotFound = 1
)

var credentialPattern = regexp.MustCompile(`^[A-Za-z0-9._@-]+$`)

type Handler struct {
	// store holds users and sessions.
	store *Store

	// writeSchema checks create and update bodies.
	writeSchema *schema.Schema

	logger logging.Logger
}

func NewHandler(store *Store, logger logging.Logger) *Handler {
	return &Handler{
		store:       store,
		writeSchema: schema.MustCompile(userclient.UserWriteSchema),
		logger:      logger,
	}
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

func (h *Handler) writeJSONResponse(w http.ResponseWriter, r *http.Request, status int, body any) {
	h.setUncacheable(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("writing response", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	h.writeJSONResponse(w, r, status, userclient.APIResponse{
		Code:    status,
		Type:    kind,
		Message: message,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeMessage(w, r, status, typeError, message)
}

// NotFound handles unrouted paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeMessage(w, r, http.StatusNotFound, typeUnknown, "not found")
}

// MethodNotAllowed handles routed paths with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeMessage(w, r, http.StatusMethodNotAllowed, typeUnknown, "method not allowed")
}

// query parses the query string strictly, url.Values from the request URL
// silently drops malformed pairs.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "malformed query: "+err.Error())
		return nil, false
	}

	return values, true
}

// session returns the token of a live session presented by cookie or
// bearer token.
func (h *Handler) session(r *http.Request) (string, bool) {
	var candidates []string

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		candidates = append(candidates, cookie.Value)
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		candidates = append(candidates, token)
	}

	for _, token := range candidates {
		if _, ok := h.store.Session(token); ok {
			return token, true
		}
	}

	return "", false
}

// usernameParam is the decoded {username} path segment.  chi routes on
// RawPath when the request carries one, and on the already decoded Path
// otherwise, so the segment is unescaped only in the former case.
func usernameParam(r *http.Request) string {
	raw := chi.URLParam(r, "username")
	if r.URL.RawPath == "" {
		return raw
	}

	username, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}

	return username
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := h.session(r); !ok {
		h.writeError(w, r, http.StatusUnauthorized, "authentication required")
		return false
	}

	return true
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.MethodNotAllowed(w, r)
		return
	}

	query, ok := h.query(w, r)
	if !ok {
		return
	}

	username, password := query.Get("username"), query.Get("password")

	if username == "" || password == "" {
		h.writeError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	if !credentialPattern.MatchString(username) || !credentialPattern.MatchString(password) {
		h.writeError(w, r, http.StatusBadRequest, "malformed credentials")
		return
	}

	token, err := h.store.Login(username, password)
	if err != nil {
		h.writeError(w, r, http.StatusUnauthorized, MessageInvalidCredentials)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})

	w.Header().Set("X-Rate-Limit", "5000")
	w.Header().Set("X-Expires-After", time.Now().Add(time.Hour).UTC().Format(time.RFC1123))

	h.writeMessage(w, r, http.StatusOK, typeUnknown, MessageLoggedIn+token)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.MethodNotAllowed(w, r)
		return
	}

	if _, ok := h.query(w, r); !ok {
		return
	}

	token, ok := h.session(r)
	if !ok {
		h.writeError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}

	h.store.Logout(token)

	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	h.writeMessage(w, r, http.StatusOK, typeUnknown, "ok")
}

// readUser decodes and validates a create or update body.
func (h *Handler) readUser(w http.ResponseWriter, r *http.Request) (userclient.User, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "unable to read body")
		return userclient.User{}, false
	}

	var document any

	if err := json.Unmarshal(data, &document); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "malformed JSON: "+err.Error())
		return userclient.User{}, false
	}

	if err := h.writeSchema.Check(document); err != nil {
		message := err.Error()

		var validationErr *schema.ValidationError
		if errors.As(err, &validationErr) && len(validationErr.Violations) > 0 {
			v := validationErr.Violations[0]
			message = fmt.Sprintf("invalid user: %s %s", v.DataPath, v.Message)
		}

		h.writeError(w, r, http.StatusBadRequest, message)

		return userclient.User{}, false
	}

	var user userclient.User

	if err := json.Unmarshal(data, &user); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "malformed user: "+err.Error())
		return userclient.User{}, false
	}

	return user, true
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	user, ok := h.readUser(w, r)
	if !ok {
		return
	}

	created, err := h.store.Create(user)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.writeMessage(w, r, http.StatusOK, typeUnknown, strconv.FormatInt(created.ID, 10))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.Get(usernameParam(r))
	if err != nil {
		h.writeJSONResponse(w, r, http.StatusNotFound, userclient.APIResponse{
			Code:    codeNotFound,
			Type:    typeError,
			Message: MessageUserNotFound,
		})

		return
	}

	h.writeJSONResponse(w, r, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	username := usernameParam(r)
	if username == "" {
		h.writeError(w, r, http.StatusBadRequest, "username is required")
		return
	}

	user, ok := h.readUser(w, r)
	if !ok {
		return
	}

	updated, err := h.store.Update(username, user)

	switch {
	case errors.Is(err, ErrNotFound):
		h.writeError(w, r, http.StatusNotFound, MessageUserNotFound)
	case err != nil:
		h.writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		h.writeMessage(w, r, http.StatusOK, typeUnknown, strconv.FormatInt(updated.ID, 10))
	}
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	username := usernameParam(r)

	if err := h.store.Delete(username); err != nil {
		h.writeError(w, r, http.StatusNotFound, MessageUserNotFound)
		return
	}

	h.writeMessage(w, r, http.StatusOK, typeUnknown, username)
}
