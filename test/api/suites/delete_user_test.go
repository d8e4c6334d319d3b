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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/userapi/pkg/transport"
	"github.com/unikorn-cloud/userapi/pkg/userclient"
	"github.com/unikorn-cloud/userapi/test/api"
)

var _ = Describe("User Deletion", func() {
	Context("When deleting an existing user", Label("positive"), func() {
		Describe("Given a user that was just created", func() {
			It("should delete the user and echo its username", func() {
				client := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, payload, payload.Username)

				// When
				resp, err := client.DeleteUser(ctx, payload.Username)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
				Expect(resp.Body.Message).To(Equal(payload.Username))

				fetched, err := client.Transport().Get(ctx, client.Endpoints().GetUser(payload.Username), transport.Options{})
				Expect(err).NotTo(HaveOccurred())
				Expect(fetched.StatusCode()).To(Equal(api.HTTPStatusNotFound))
			})

			It("should free the username for reuse", func() {
				client := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, payload, payload.Username)

				deleted, err := client.DeleteUser(ctx, payload.Username)
				Expect(err).NotTo(HaveOccurred())
				Expect(deleted.Status).To(Equal(api.HTTPStatusOK))

				// When
				resp, err := client.CreateUser(ctx, payload)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
			})
		})
	})

	Context("When deleting a user that cannot be deleted", Label("negative"), func() {
		Describe("Given a username that does not exist", func() {
			It("should respond not found", func() {
				client := api.AuthorizedClient(ctx, env)
				username := api.NewUserPayload().Username()

				// When
				resp, err := client.DeleteUser(ctx, username)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusNotFound))
				Expect(resp.Body.Message).To(Equal(api.MessageUserNotFound))
			})
		})

		Describe("Given a user that was already deleted", func() {
			It("should respond not found the second time", func() {
				client := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, payload, payload.Username)

				first, err := client.DeleteUser(ctx, payload.Username)
				Expect(err).NotTo(HaveOccurred())
				Expect(first.Status).To(Equal(api.HTTPStatusOK))

				// When
				second, err := client.DeleteUser(ctx, payload.Username)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(second.Status).To(Equal(api.HTTPStatusNotFound))
			})
		})

		Describe("Given a client that is not logged in", func() {
			It("should reject the deletion and keep the user", func() {
				owner := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, owner, payload, payload.Username)

				client := api.UnauthenticatedClient(env)

				// When
				resp, err := client.DeleteUser(ctx, payload.Username)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusUnauthorized))

				fetched, err := client.GetUser(ctx, payload.Username)
				Expect(err).NotTo(HaveOccurred())
				Expect(fetched.Status).To(Equal(api.HTTPStatusOK))
			})
		})
	})
})
