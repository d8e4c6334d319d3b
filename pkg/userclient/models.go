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

package userclient

import (
	"embed"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/unikorn-cloud/userapi/pkg/schema"
)

// User is an account as the service stores and returns it.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	UserStatus int    `json:"userStatus"`
}

// APIResponse is the generic status body returned by every endpoint except
// user retrieval.
type APIResponse struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

//go:embed schemas/*.json
var schemas embed.FS

func mustSchema(name string) schema.Definition {
	data, err := schemas.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}

	return data
}

var (
	// UserSchema describes a User exactly, no extra fields.
	UserSchema = mustSchema("user.json")

	// ResponseSchema describes an APIResponse, extra fields allowed.
	ResponseSchema = mustSchema("response.json")

	// UserWriteSchema describes create and update request bodies.
	UserWriteSchema = mustSchema("user_write.json")
)

// Defaults for generated users.
const (
	DefaultFirstName  = "Test"
	DefaultLastName   = "Automation"
	DefaultPassword   = "Password123"
	DefaultPhone      = "1234567890"
	DefaultUserStatus = 1
)

// Overrides replace generated values in NewUserPayload.
type Overrides struct {
	ID         *int64
	Username   *string
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	Phone      *string
	UserStatus *int
}

//nolint:gochecknoglobals
var sequence atomic.Int64

// uniqueID is a millisecond timestamp extended with a per-process sequence.
func uniqueID() int64 {
	return time.Now().UnixMilli()*1000 + sequence.Add(1)%1000
}

func pick[T any](override *T, value T) T {
	if override != nil {
		return *override
	}

	return value
}

// NewUserPayload returns a unique, valid user.
func NewUserPayload(o Overrides) User {
	id := uniqueID()

	return User{
		ID:         pick(o.ID, id),
		Username:   pick(o.Username, fmt.Sprintf("user%d", id)),
		FirstName:  pick(o.FirstName, DefaultFirstName),
		LastName:   pick(o.LastName, DefaultLastName),
		Email:      pick(o.Email, fmt.Sprintf("user%d@example.com", id)),
		Password:   pick(o.Password, DefaultPassword),
		Phone:      pick(o.Phone, DefaultPhone),
		UserStatus: pick(o.UserStatus, DefaultUserStatus),
	}
}
