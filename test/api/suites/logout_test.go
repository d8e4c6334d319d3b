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
	"github.com/unikorn-cloud/userapi/test/api"
)

var _ = Describe("User Logout", func() {
	Context("When logging out of an active session", Label("positive"), func() {
		Describe("Given a logged in user", func() {
			It("should end the session", func() {
				client := api.AuthorizedClient(ctx, env)

				// When
				resp, err := client.Logout(ctx)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
				Expect(resp.Body.Message).To(Equal(api.MessageOK))
			})

			It("should revoke access to protected operations", func() {
				client := api.AuthorizedClient(ctx, env)

				_, err := client.Logout(ctx)
				Expect(err).NotTo(HaveOccurred())

				// When
				resp, err := client.CreateUser(ctx, api.NewUserPayload().Build())

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusUnauthorized))
			})

			It("should allow logging in again afterwards", func() {
				client := api.AuthorizedClient(ctx, env)

				_, err := client.Logout(ctx)
				Expect(err).NotTo(HaveOccurred())

				// When
				resp, err := client.Login(ctx, env.Config.Username, env.Config.Password)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusOK))
				Expect(resp.Body.Message).To(HavePrefix(api.MessageLoggedInSession))
			})
		})
	})

	Context("When logging out without a valid session", Label("negative"), func() {
		Describe("Given a client that never logged in", func() {
			It("should reject the logout as unauthorized", func() {
				client := api.UnauthenticatedClient(env)

				// When
				resp, err := client.Logout(ctx)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Status).To(Equal(api.HTTPStatusUnauthorized))
			})
		})

		Describe("Given a session that was already ended", func() {
			It("should reject the second logout as unauthorized", func() {
				client := api.AuthorizedClient(ctx, env)

				first, err := client.Logout(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(first.Status).To(Equal(api.HTTPStatusOK))

				// When
				second, err := client.Logout(ctx)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(second.Status).To(Equal(api.HTTPStatusUnauthorized))
			})
		})

		DescribeTable("Given a forged session cookie",
			func(cookie string) {
				client := api.UnauthenticatedClient(env)

				// When
				resp, err := client.Transport().Get(ctx, client.Endpoints().Logout(), transport.Options{
					Headers: map[string]string{"Cookie": cookie},
				})

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode()).To(Equal(api.HTTPStatusUnauthorized))
			},
			Entry("empty token", "token="),
			Entry("unknown token", "token=00000000-0000-0000-0000-000000000000"),
			Entry("garbage token", "token=not-a-session"),
			Entry("wrong cookie name", "session=abc"),
		)

		DescribeTable("Given a malformed query string",
			func(query string) {
				client := api.UnauthenticatedClient(env)

				// When
				resp, err := client.Transport().Get(ctx, client.Endpoints().Logout()+query, transport.Options{})

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode()).To(BeNumerically(">=", api.HTTPStatusBadRequest))
			},
			Entry("semicolon separator", "?;foo=bar"),
			Entry("doubled separator", "?token==abc"),
			Entry("unescaped markup", "?x=<script>"),
			Entry("array syntax", "?a[]=1"),
			Entry("truncated escape", "?param=%"),
		)
	})
})
