// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *apperr.AppError
		status int
		code   string
	}{
		{apperr.NotFound("Book"), http.StatusNotFound, apperr.CodeNotFound},
		{apperr.Conflict("dup"), http.StatusConflict, apperr.CodeConflict},
		{apperr.ValidationError("bad"), http.StatusBadRequest, apperr.CodeValidation},
		{apperr.RateLimited(3), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{apperr.ImportUnavailable("OL1W", nil), http.StatusNotFound, apperr.CodeImportFailed},
		{apperr.Internal(nil), http.StatusInternalServerError, apperr.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}

	assert.Equal(t, "Book not found", apperr.NotFound("Book").Error())
}

func TestInternalKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "relation")
	assert.ErrorIs(t, err, cause)
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("rate book: %w", apperr.Conflict("already rated"))

	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeConflict, appError.Code)

	assert.Nil(t, apperr.As(errors.New("plain")))
}

func TestWithCauseCopies(t *testing.T) {
	base := apperr.NotFound("Genre")
	withCause := base.WithCause(errors.New("no rows"))

	assert.Nil(t, base.Cause)
	assert.NotNil(t, withCause.Cause)
}
