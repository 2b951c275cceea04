// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/users/auth"
)

// Users implements [auth.UserRepository] and the account mutations. Accounts never take part in import
// transactions, so it keeps its own lock.
type Users struct {
	mu    sync.Mutex
	seq   int64
	users []auth.User
}

func NewUsers() *Users {
	return &Users{}
}

func (repository *Users) find(match func(auth.User) bool) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, u := range repository.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (repository *Users) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	return repository.find(func(u auth.User) bool { return u.ID == id })
}

func (repository *Users) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return repository.find(func(u auth.User) bool { return strings.EqualFold(u.Email, email) })
}

func (repository *Users) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return repository.find(func(u auth.User) bool { return strings.EqualFold(u.Username, username) })
}

func (repository *Users) Create(ctx context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, u := range repository.users {
		if strings.EqualFold(u.Email, user.Email) || strings.EqualFold(u.Username, user.Username) {
			return apperr.Conflict("Account already exists")
		}
	}

	repository.seq++
	user.ID = repository.seq
	user.CreatedAt, user.UpdatedAt = time.Now(), time.Now()
	repository.users = append(repository.users, *user)
	return nil
}

func (repository *Users) Update(ctx context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	index := -1
	for i, u := range repository.users {
		if u.ID == user.ID {
			index = i
			continue
		}
		if strings.EqualFold(u.Email, user.Email) || strings.EqualFold(u.Username, user.Username) {
			return apperr.Conflict("Username or email is already registered")
		}
	}
	if index < 0 {
		return auth.ErrNotFound
	}

	user.UpdatedAt = time.Now()
	stored := &repository.users[index]
	stored.Username, stored.Email, stored.UpdatedAt = user.Username, user.Email, user.UpdatedAt
	return nil
}

func (repository *Users) UpdatePassword(ctx context.Context, id int64, hash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for i := range repository.users {
		if repository.users[i].ID == id {
			repository.users[i].PasswordHash = hash
			repository.users[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return auth.ErrNotFound
}

// Delete only removes the account. Engagements held in [Store] are not cascaded.
func (repository *Users) Delete(ctx context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for i, u := range repository.users {
		if u.ID == id {
			repository.users = append(repository.users[:i], repository.users[i+1:]...)
			return nil
		}
	}
	return auth.ErrNotFound
}
