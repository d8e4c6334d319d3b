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
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/unikorn-cloud/userapi/pkg/userclient"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrUsernameConflict  = errors.New("username already exists")
	ErrEmailConflict     = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username/password")
)

// Store holds users and sessions in memory.
type Store struct {
	lock     sync.Mutex
	users    map[string]userclient.User
	sessions map[string]string
	nextID   int64
}

// NewStore returns a store containing the given accounts.
func NewStore(accounts ...userclient.User) *Store {
	s := &Store{
		users:    map[string]userclient.User{},
		sessions: map[string]string{},
		nextID:   1,
	}

	for _, account := range accounts {
		if _, err := s.Create(account); err != nil {
			panic(err)
		}
	}

	return s
}

// conflict checks that u could be stored under its username without
// clashing with anyone other than the user currently named previous.
func (s *Store) conflict(u userclient.User, previous string) error {
	if existing, ok := s.users[u.Username]; ok && existing.Username != previous {
		return ErrUsernameConflict
	}

	if u.Email == "" {
		return nil
	}

	for name, existing := range s.users {
		if name != previous && existing.Email == u.Email {
			return ErrEmailConflict
		}
	}

	return nil
}

// Create adds a user, allocating an ID when none is given.
func (s *Store) Create(u userclient.User) (userclient.User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.conflict(u, ""); err != nil {
		return userclient.User{}, err
	}

	if u.ID == 0 {
		u.ID = s.nextID
	}

	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}

	s.users[u.Username] = u

	return u, nil
}

// Get looks a user up by name.
func (s *Store) Get(username string) (userclient.User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	u, ok := s.users[username]
	if !ok {
		return userclient.User{}, ErrNotFound
	}

	return u, nil
}

// Update replaces the named user with u, which may carry a new username.
// A zero ID keeps the existing one.
func (s *Store) Update(username string, u userclient.User) (userclient.User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	existing, ok := s.users[username]
	if !ok {
		return userclient.User{}, ErrNotFound
	}

	if err := s.conflict(u, username); err != nil {
		return userclient.User{}, err
	}

	if u.ID == 0 {
		u.ID = existing.ID
	}

	delete(s.users, username)
	s.users[u.Username] = u

	for token, owner := range s.sessions {
		if owner == username {
			s.sessions[token] = u.Username
		}
	}

	return u, nil
}

// Delete removes a user and any of its sessions.
func (s *Store) Delete(username string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.users[username]; !ok {
		return ErrNotFound
	}

	delete(s.users, username)

	for token, owner := range s.sessions {
		if owner == username {
			delete(s.sessions, token)
		}
	}

	return nil
}

// Login checks credentials and opens a session.
func (s *Store) Login(username, password string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	u, ok := s.users[username]
	if !ok || u.Password != password {
		return "", ErrInvalidCredential
	}

	token := uuid.NewString()
	s.sessions[token] = username

	return token, nil
}

// Session returns the user owning token.
func (s *Store) Session(token string) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	username, ok := s.sessions[token]

	return username, ok
}

// Logout closes a session.
func (s *Store) Logout(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.sessions, token)
}
