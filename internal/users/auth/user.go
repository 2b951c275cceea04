// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration and login for BlaBlaBook.

# Architecture

Accounts live in users.account. A successful login returns a short RS256 access
token signed by [sec.TokenService]; every other package only sees the verified
[sec.AuthClaims] placed in the request context by the authentication middleware.
*/
package auth

import (
	"time"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/sec"
)

// # Domain Entities

// User represents a registered BlaBlaBook reader.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never serialized.
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldLogin       = "login"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
)

// # Constraints

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
	MaxPasswordLength = 72 // runes; sec.MaxPasswordBytes also applies
)

// ErrNotFound is returned by the repository when no account matches.
var ErrNotFound = apperr.NotFound("User")

// errInvalidCredentials is deliberately identical for unknown users and wrong passwords.
var errInvalidCredentials = apperr.Unauthorized("Invalid login credentials")
