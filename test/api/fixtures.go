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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/userapi/pkg/userclient"
)

// UnauthenticatedClient returns a client with no session and no bearer
// token, even if API_AUTH_TOKEN is configured.
func UnauthenticatedClient(env *Environment) *userclient.Client {
	client, err := env.NewClient()
	Expect(err).NotTo(HaveOccurred())

	client.Transport().SetAuthToken("")

	return client
}

// AuthorizedClient returns a client logged in as the configured account.  The
// session is ended when the test finishes.
func AuthorizedClient(ctx context.Context, env *Environment) *userclient.Client {
	client, err := env.NewClient()
	Expect(err).NotTo(HaveOccurred())

	resp, err := client.Login(ctx, env.Config.Username, env.Config.Password)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.Status).To(Equal(HTTPStatusOK), "login as %s failed: %s", env.Config.Username, resp.Body.Message)
	Expect(resp.Body.Message).To(HavePrefix(MessageLoggedInSession))

	DeferCleanup(func() {
		if _, err := client.Logout(context.Background()); err != nil {
			GinkgoWriter.Printf("Warning: Failed to log out %s: %v\n", env.Config.Username, err)
		}
	})

	return client
}

// CreateUserWithCleanup creates a user and deletes it when the test finishes.
// Any usernames in aliases are deleted too, for specs that rename the user.
func CreateUserWithCleanup(ctx context.Context, client *userclient.Client, payload any, username string, aliases ...string) {
	resp, err := client.CreateUser(ctx, payload)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.Status).To(Equal(HTTPStatusOK), "create user %s failed: %s", username, resp.Body.Message)

	GinkgoWriter.Printf("Created user: %s\n", username)

	DeleteUserOnCleanup(client, append([]string{username}, aliases...)...)
}

// DeleteUserOnCleanup deletes users when the test finishes, ignoring whether
// they still exist.
func DeleteUserOnCleanup(client *userclient.Client, usernames ...string) {
	DeferCleanup(func() {
		for _, username := range usernames {
			if strings.TrimSpace(username) == "" {
				continue
			}

			resp, err := client.DeleteUser(context.Background(), username)
			if err != nil {
				GinkgoWriter.Printf("Warning: Failed to delete user %s: %v\n", username, err)
				continue
			}

			if resp.Status == HTTPStatusOK {
				GinkgoWriter.Printf("Successfully deleted user: %s\n", username)
			}
		}
	})
}

// VerifyUser checks a retrieved user against the payload it was created from.
// Passwords are not compared, services commonly redact them.
func VerifyUser(actual, expected userclient.User) {
	Expect(actual.ID).To(Equal(expected.ID))
	Expect(actual.Username).To(Equal(expected.Username))
	Expect(actual.FirstName).To(Equal(expected.FirstName))
	Expect(actual.LastName).To(Equal(expected.LastName))
	Expect(actual.Email).To(Equal(expected.Email))
	Expect(actual.Phone).To(Equal(expected.Phone))
	Expect(actual.UserStatus).To(Equal(expected.UserStatus))
}
