// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile management and security settings of a reader.

# Architecture

  - Entities: [auth.User] is shared with the auth package; [PublicProfile] is
    the projection other readers may see.
  - Deleting an account removes its ratings, notices and libraries through
    foreign key cascades. Books it imported stay in the catalogue.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/blablabook/internal/users/auth"
)

// # Domain Entities

// PublicProfile is the subset of an account visible to other readers.
type PublicProfile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	MemberSince time.Time `json:"member_since"`
}

// NewPublicProfile hides credentials and contact details of user.
func NewPublicProfile(user *auth.User) *PublicProfile {
	return &PublicProfile{ID: user.ID, Username: user.Username, MemberSince: user.CreatedAt}
}

// # Payloads

// UpdateProfileInput patches identity fields; nil fields are left untouched.
type UpdateProfileInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// DeleteAccountInput asks for the password again before an irreversible delete.
type DeleteAccountInput struct {
	Password string `json:"password"`
}

const (
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)

// # Repository Contracts

// Repository extends the auth lookups with the mutations an account owner may perform.
type Repository interface {
	auth.UserRepository

	/*
		Update persists username and email.

		Returns:
		  - error: apperr.Conflict on a taken username or email, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	// UpdatePassword replaces the stored bcrypt hash.
	UpdatePassword(context context.Context, id int64, hash string) error

	// Delete removes the account and everything that cascades from it.
	Delete(context context.Context, id int64) error
}
