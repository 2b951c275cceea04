// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/database/schema"
	"github.com/taibuivan/blablabook/internal/platform/dberr"
	"github.com/taibuivan/blablabook/internal/platform/postgres"
	"github.com/taibuivan/blablabook/internal/platform/sec"
)

// # Postgres Implementation

// PostgresUserRepository implements [UserRepository] against users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository constructs a repository backed by pool.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = schema.List(schema.UserAccount.Columns()...)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	user := &User{}
	var role string
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.Role = sec.UserRole(role)
	return user, nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	return repository.findOne(context, "find_user_by_id", schema.UserAccount.ID+` = $1`, id)
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "find_user_by_email", `LOWER(`+schema.UserAccount.Email+`) = LOWER($1)`, email)
}

func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, "find_user_by_username", `LOWER(`+schema.UserAccount.Username+`) = LOWER($1)`, username)
}

func (repository *PostgresUserRepository) findOne(context context.Context, action, predicate string, arg any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, userColumns, schema.UserAccount.Table, predicate)

	user, err := scanUser(postgres.Conn(context, repository.pool).QueryRow(context, query, arg))
	if err != nil {
		return nil, dberr.Wrap(err, action, ErrNotFound)
	}
	return user, nil
}

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.Password, schema.UserAccount.Role,
		schema.UserAccount.ID, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := postgres.Conn(context, repository.pool).
		QueryRow(context, query, user.Username, user.Email, user.PasswordHash, string(user.Role)).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Username or email is already registered")
	}
	return dberr.Wrap(err, "create_user")
}
