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

import (
	"maps"

	"github.com/unikorn-cloud/userapi/pkg/userclient"
)

// UserPayloadBuilder builds user payloads for testing.  It works on a generic
// map so that negative cases can drop required fields or send values of the
// wrong type, which a userclient.User cannot express.
type UserPayloadBuilder struct {
	payload map[string]any
}

// NewUserPayload creates a new builder seeded with a unique, valid user.
func NewUserPayload() *UserPayloadBuilder {
	return NewUserPayloadFrom(userclient.NewUserPayload(userclient.Overrides{}))
}

// NewUserPayloadFrom creates a new builder seeded with user.
func NewUserPayloadFrom(user userclient.User) *UserPayloadBuilder {
	return &UserPayloadBuilder{
		payload: map[string]any{
			"id":         user.ID,
			"username":   user.Username,
			"firstName":  user.FirstName,
			"lastName":   user.LastName,
			"email":      user.Email,
			"password":   user.Password,
			"phone":      user.Phone,
			"userStatus": user.UserStatus,
		},
	}
}

// Username returns the username currently in the payload, or an empty string
// if it was removed or replaced by a non string.
func (b *UserPayloadBuilder) Username() string {
	username, _ := b.payload["username"].(string)

	return username
}

// WithUsername sets the username.
func (b *UserPayloadBuilder) WithUsername(username string) *UserPayloadBuilder {
	return b.With("username", username)
}

// WithEmail sets the email address.
func (b *UserPayloadBuilder) WithEmail(email string) *UserPayloadBuilder {
	return b.With("email", email)
}

// WithPassword sets the password.
func (b *UserPayloadBuilder) WithPassword(password string) *UserPayloadBuilder {
	return b.With("password", password)
}

// With sets any field to any value.
func (b *UserPayloadBuilder) With(field string, value any) *UserPayloadBuilder {
	b.payload[field] = value

	return b
}

// Without removes a field.
func (b *UserPayloadBuilder) Without(field string) *UserPayloadBuilder {
	delete(b.payload, field)

	return b
}

// Build returns a copy of the payload.
func (b *UserPayloadBuilder) Build() map[string]any {
	return maps.Clone(b.payload)
}
