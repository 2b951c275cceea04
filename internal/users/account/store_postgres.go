// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/database/schema"
	"github.com/taibuivan/blablabook/internal/platform/dberr"
	"github.com/taibuivan/blablabook/internal/platform/postgres"
	"github.com/taibuivan/blablabook/internal/users/auth"
)

// PostgresRepository implements [Repository] on top of the auth lookups.
type PostgresRepository struct {
	*auth.PostgresUserRepository
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		PostgresUserRepository: auth.NewPostgresUserRepository(pool),
		pool:                   pool,
	}
}

func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := postgres.Conn(context, repository.pool).
		QueryRow(context, query, user.ID, user.Username, user.Email).
		Scan(&user.UpdatedAt)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("Username or email is already registered")
	}
	return dberr.Wrap(err, "update_user", auth.ErrNotFound)
}

func (repository *PostgresRepository) UpdatePassword(context context.Context, id int64, hash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := postgres.Conn(context, repository.pool).Exec(context, query, id, hash)
	if err != nil {
		return dberr.Wrap(err, "update_user_password")
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for rates, notices and libraries.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := postgres.Conn(context, repository.pool).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}
