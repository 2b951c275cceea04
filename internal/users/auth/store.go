// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: [ErrNotFound] or database failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive).

		Returns:
		  - *User: Hydrated entity
		  - error: [ErrNotFound] or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username (case-insensitive).

		Returns:
		  - *User: Hydrated entity
		  - error: [ErrNotFound] or database failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account and fills its ID and timestamps.

		Returns:
		  - error: Conflict on duplicate username/email, or persistence failures
	*/
	Create(context context.Context, user *User) error
}
