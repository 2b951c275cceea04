// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx errors into [apperr.AppError] values so
// repositories never leak SQL details to clients.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

// ErrNotFound is used when a repository passes no sentinel of its own.
var ErrNotFound = apperr.NotFound("Resource")

// Wrap classifies err by SQLSTATE:
//
//   - no rows: notFound[0], or [ErrNotFound]
//   - 23505 unique: 409 CONFLICT
//   - 23503 foreign key: 422, the referenced row vanished mid-request
//   - 23514 check: 400 VALIDATION_ERROR
//   - 57014 canceled (statement_timeout): 503
//
// Anything else is a 500 with action in the logged cause.
func Wrap(err error, action string, notFound ...error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if len(notFound) > 0 && notFound[0] != nil {
			return notFound[0]
		}
		return ErrNotFound
	}

	cause := fmt.Errorf("%s: %w", action, err)
	switch code(err) {
	case pgerrcode.UniqueViolation:
		return apperr.Conflict("Resource already exists").WithCause(cause)
	case pgerrcode.ForeignKeyViolation:
		return apperr.Unprocessable("A referenced resource no longer exists").WithCause(cause)
	case pgerrcode.CheckViolation:
		return apperr.ValidationError("Value out of range").WithCause(cause)
	case pgerrcode.QueryCanceled:
		return apperr.ServiceUnavailable("The database took too long to answer").WithCause(cause)
	}
	return apperr.Internal(cause)
}

// IsUniqueViolation lets repositories attach a domain-specific conflict message.
func IsUniqueViolation(err error) bool {
	return code(err) == pgerrcode.UniqueViolation
}

func code(err error) string {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code
	}
	return ""
}
