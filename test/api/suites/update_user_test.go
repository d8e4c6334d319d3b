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

var _ = Describe("User Update", func() {
	Context("When updating an existing user", Label("positive"), func() {
		Describe("Given new profile details", func() {
			It("should persist the changes", func() {
				client := api.AuthorizedClient(ctx, env)
				original := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, original, original.Username)

				updated := original
				updated.FirstName = "Updated"
				updated.LastName = "Person"
				updated.Phone = "0987654321"
				updated.UserStatus = 2

				// When
				resp, err := client.UpdateUser(ctx, original.Username, updated)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
				Expect(resp.Body.Message).To(Equal(strconv.FormatInt(original.ID, 10)))

				fetched, err := client.GetUser(ctx, original.Username)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUser(fetched.Body, updated)
			})
		})

		Describe("Given a new username", func() {
			It("should rename the user", func() {
				client := api.AuthorizedClient(ctx, env)
				original := userclient.NewUserPayload(userclient.Overrides{})
				renamed := original
				renamed.Username = original.Username + "-renamed"

				api.CreateUserWithCleanup(ctx, client, original, original.Username, renamed.Username)

				// When
				resp, err := client.UpdateUser(ctx, original.Username, renamed)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))

				fetched, err := client.GetUser(ctx, renamed.Username)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUser(fetched.Body, renamed)

				old, err := client.Transport().Get(ctx, client.Endpoints().GetUser(original.Username), transport.Options{})
				Expect(err).NotTo(HaveOccurred())
				Expect(old.StatusCode()).To(Equal(api.HTTPStatusNotFound))
			})
		})

		Describe("Given an unchanged payload", func() {
			It("should succeed without side effects", func() {
				client := api.AuthorizedClient(ctx, env)
				original := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, original, original.Username)

				// When
				resp, err := client.UpdateUser(ctx, original.Username, original)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))

				fetched, err := client.GetUser(ctx, original.Username)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUser(fetched.Body, original)
			})
		})
	})

	Context("When updating a user that cannot be updated", Label("negative"), func() {
		DescribeTable("Given a username that does not identify a user",
			func(username string) {
				client := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.DeleteUserOnCleanup(client, payload.Username)

				// When
				resp, err := client.UpdateUser(ctx, username, payload)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(BeNumerically(">=", api.HTTPStatusBadRequest))
				Expect(resp.OK).To(BeFalse())
			},
			Entry("unknown username", "nonexistentuser"),
			Entry("empty username", ""),
			Entry("literal null", "null"),
			Entry("numeric username", "12345"),
		)

		Describe("Given a username already taken by another user", func() {
			It("should reject the rename", func() {
				client := api.AuthorizedClient(ctx, env)
				first := userclient.NewUserPayload(userclient.Overrides{})
				second := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, first, first.Username)
				api.CreateUserWithCleanup(ctx, client, second, second.Username)

				clash := second
				clash.Username = first.Username

				// When
				resp, err := client.UpdateUser(ctx, second.Username, clash)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusBadRequest))

				fetched, err := client.GetUser(ctx, second.Username)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUser(fetched.Body, second)
			})
		})

		Describe("Given a client that is not logged in", func() {
			It("should reject the update as unauthorized", func() {
				owner := api.AuthorizedClient(ctx, env)
				original := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, owner, original, original.Username)

				client := api.UnauthenticatedClient(env)
				changed := userclient.NewUserPayload(userclient.Overrides{Username: ptr.To(original.Username)})

				// When
				resp, err := client.UpdateUser(ctx, original.Username, changed)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusUnauthorized))
			})
		})

		DescribeTable("Given an invalid payload",
			func(mutate func(*api.UserPayloadBuilder) *api.UserPayloadBuilder) {
				client := api.AuthorizedClient(ctx, env)
				original := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, original, original.Username)

				// When
				resp, err := client.UpdateUser(ctx, original.Username, mutate(api.NewUserPayloadFrom(original)).Build())

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusBadRequest))
			},
			Entry("missing username", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.Without("username")
			}),
			Entry("empty password", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.WithPassword("")
			}),
			Entry("textual status", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.With("userStatus", "active")
			}),
			Entry("unknown field", func(b *api.UserPayloadBuilder) *api.UserPayloadBuilder {
				return b.With("role", "admin")
			}),
		)
	})
})
