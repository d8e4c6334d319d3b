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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"k8s.io/utils/ptr"

	"github.com/unikorn-cloud/userapi/pkg/transport"
	"github.com/unikorn-cloud/userapi/pkg/userclient"
	"github.com/unikorn-cloud/userapi/test/api"
)

var _ = Describe("User Creation", func() {
	Context("When creating a user with a valid payload", Label("positive"), func() {
		Describe("Given a complete user", func() {
			It("should create the user and return its identifier", func() {
				client := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.DeleteUserOnCleanup(client, payload.Username)

				// When
				resp, err := client.CreateUser(ctx, payload)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
				Expect(resp.Body.Code).To(Equal(api.HTTPStatusOK))
				Expect(resp.Body.Message).To(Equal(strconv.FormatInt(payload.ID, 10)))

				GinkgoWriter.Printf("Created user %s with ID %s\n", payload.Username, resp.Body.Message)
			})

			It("should make the user retrievable", func() {
				client := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})

				// When
				api.CreateUserWithCleanup(ctx, client, payload, payload.Username)

				// Then
				resp, err := client.GetUser(ctx, payload.Username)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
				api.VerifyUser(resp.Body, payload)
			})
		})

		Describe("Given users that differ only in optional fields", func() {
			It("should create each of them", func() {
				client := api.AuthorizedClient(ctx, env)

				payloads := []userclient.User{
					userclient.NewUserPayload(userclient.Overrides{UserStatus: ptr.To(0)}),
					userclient.NewUserPayload(userclient.Overrides{Phone: ptr.To("+44 20 7946 0958")}),
					userclient.NewUserPayload(userclient.Overrides{FirstName: ptr.To("Zoë"), LastName: ptr.To("O'Brien")}),
				}

				for _, payload := range payloads {
					// When
					api.CreateUserWithCleanup(ctx, client, payload, payload.Username)

					// Then
					resp, err := client.GetUser(ctx, payload.Username)
					Expect(err).NotTo(HaveOccurred())
					api.VerifyUser(resp.Body, payload)
				}
			})
		})
	})

	Context("When creating a user that conflicts with business rules", Label("negative"), func() {
		Describe("Given a username that is already taken", func() {
			It("should reject the duplicate", func() {
				client := api.AuthorizedClient(ctx, env)
				existing := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, existing, existing.Username)

				duplicate := userclient.NewUserPayload(userclient.Overrides{Username: ptr.To(existing.Username)})

				// When
				resp, err := client.CreateUser(ctx, duplicate)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusBadRequest))
			})
		})

		Describe("Given an email address that is already taken", func() {
			It("should reject the duplicate", func() {
				client := api.AuthorizedClient(ctx, env)
				existing := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, existing, existing.Username)

				duplicate := userclient.NewUserPayload(userclient.Overrides{Email: ptr.To(existing.Email)})
				api.DeleteUserOnCleanup(client, duplicate.Username)

				// When
				resp, err := client.CreateUser(ctx, duplicate)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusBadRequest))
			})
		})

		Describe("Given a client that is not logged in", func() {
			It("should reject the creation as unauthorized", func() {
				client := api.UnauthenticatedClient(env)
				payload := api.NewUserPayload()

				// When
				resp, err := client.CreateUser(ctx, payload.Build())

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusUnauthorized))
			})
		})
	})

	Context("When creating a user with an invalid payload", Label("negative"), func() {
		DescribeTable("Given a payload that breaks the user contract",
			func(mutate func(*api.UserPayloadBuilder) *api.UserPayloadBuilder) {
				client := api.AuthorizedClient(ctx, env)
				payload := api.NewUserPayload()
				api.DeleteUserOnCleanup(client, payload.Username())

				// When
				resp, err := client.CreateUser(ctx, mutate(payload).Build())

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusBadRequest))
			},
			Entry("missing username", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.Without("username")
			}),
			Entry("missing password", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.Without("password")
			}),
			Entry("empty username", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.WithUsername("")
			}),
			Entry("empty password", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.WithPassword("")
			}),
			Entry("numeric username", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.With("username", 12345)
			}),
			Entry("textual identifier", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.With("id", "abc")
			}),
			Entry("textual status", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.With("userStatus", "active")
			}),
			Entry("null email", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.With("email", nil)
			}),
			Entry("unknown field", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.With("role", "admin")
			}),
		)

		DescribeTable("Given a body that is not a user document",
			func(body string) {
				client := api.AuthorizedClient(ctx, env)

				// When
				resp, err := client.Transport().Post(ctx, client.Endpoints().CreateUser(), transport.Options{
					RawBody: body,
					Headers: map[string]string{"Content-Type": "application/json"},
				})

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode()).To(Equal(api.HTTPStatusBadRequest))
			},
			Entry("truncated JSON", `{"username": "broken"`),
			Entry("array", `[{"username": "a", "password": "b"}]`),
			Entry("string", `"user"`),
			Entry("plain text", `username=a&password=b`),
			Entry("empty object", `{}`),
		)
	})
})
