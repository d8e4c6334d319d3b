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
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/userapi/pkg/schema"
	"github.com/unikorn-cloud/userapi/pkg/transport"
	"github.com/unikorn-cloud/userapi/pkg/userclient"
	"github.com/unikorn-cloud/userapi/test/api"
)

var _ = Describe("User Retrieval", func() {
	Context("When retrieving an existing user", Label("positive"), func() {
		Describe("Given a user that was just created", func() {
			It("should return the user as created", func() {
				client := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, payload, payload.Username)

				// When
				resp, err := client.GetUser(ctx, payload.Username)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
				Expect(resp.OK).To(BeTrue())
				api.VerifyUser(resp.Body, payload)
			})

			It("should not require a session", func() {
				owner := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, owner, payload, payload.Username)

				client := api.UnauthenticatedClient(env)

				// When
				resp, err := client.GetUser(ctx, payload.Username)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
				Expect(resp.Body.Username).To(Equal(payload.Username))
			})
		})

		Describe("Given the logged in account", func() {
			It("should return the account", func() {
				client := api.AuthorizedClient(ctx, env)

				// When
				resp, err := client.GetUser(ctx, env.Config.Username)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Body.Username).To(Equal(env.Config.Username))
			})
		})
	})

	Context("When retrieving a user that does not exist", Label("negative"), func() {
		Describe("Given an unknown username", func() {
			It("should respond not found", func() {
				client := api.UnauthenticatedClient(env)
				username := api.NewUserPayload().Username()

				// When
				resp, err := client.Transport().Get(ctx, client.Endpoints().GetUser(username), transport.Options{})

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode()).To(Equal(api.HTTPStatusNotFound))

				var body userclient.APIResponse
				Expect(resp.JSON(&body)).To(Succeed())
				Expect(body.Message).To(Equal(api.MessageUserNotFound))
			})

			It("should fail user schema validation in the client", func() {
				client := api.UnauthenticatedClient(env)
				username := api.NewUserPayload().Username()

				// When
				_, err := client.GetUser(ctx, username)

				// Then
				Expect(err).To(HaveOccurred())

				var validationErr *schema.ValidationError
				Expect(errors.As(err, &validationErr)).To(BeTrue(), "expected a schema violation, got %v", err)
				Expect(validationErr.Violations).NotTo(BeEmpty())
			})
		})

		Describe("Given a user that was deleted", func() {
			It("should respond not found", func() {
				client := api.AuthorizedClient(ctx, env)
				payload := userclient.NewUserPayload(userclient.Overrides{})
				api.CreateUserWithCleanup(ctx, client, payload, payload.Username)

				deleted, err := client.DeleteUser(ctx, payload.Username)
				Expect(err).NotTo(HaveOccurred())
				Expect(deleted.Status).To(Equal(api.HTTPStatusOK))

				// When
				resp, err := client.Transport().Get(ctx, client.Endpoints().GetUser(payload.Username), transport.Options{})

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode()).To(Equal(api.HTTPStatusNotFound))
			})
		})
	})
})
