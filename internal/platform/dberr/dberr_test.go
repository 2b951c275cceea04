// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	pgError := func(code string) error {
		return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, Message: "constraint says no"})
	}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unique", pgError(pgerrcode.UniqueViolation), http.StatusConflict},
		{"foreign key", pgError(pgerrcode.ForeignKeyViolation), http.StatusUnprocessableEntity},
		{"check", pgError(pgerrcode.CheckViolation), http.StatusBadRequest},
		{"statement timeout", pgError(pgerrcode.QueryCanceled), http.StatusServiceUnavailable},
		{"other sqlstate", pgError(pgerrcode.DeadlockDetected), http.StatusInternalServerError},
		{"plain error", errors.New("conn closed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appError := apperr.As(dberr.Wrap(tt.err, "insert rate"))
			require.NotNil(t, appError)
			assert.Equal(t, tt.status, appError.HTTPStatus)
			assert.NotContains(t, appError.Message, "constraint says no")
			assert.ErrorContains(t, appError.Cause, "insert rate")
		})
	}
}

func TestWrap_NoRows(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
	assert.Same(t, dberr.ErrNotFound, dberr.Wrap(pgx.ErrNoRows, "find"))

	bookMissing := apperr.NotFound("Book")
	assert.Same(t, bookMissing, dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "find", bookMissing))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, dberr.IsUniqueViolation(errors.New("x")))
}
