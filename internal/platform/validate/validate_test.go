// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/validate"
)

func details(t *testing.T, err error) []apperr.FieldError {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeValidation, appError.Code)
	return appError.Details
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		check func(v *validate.Validator) *validate.Validator
		valid bool
	}{
		{"required ok", func(v *validate.Validator) *validate.Validator { return v.Required("title", "Dune") }, true},
		{"required blank", func(v *validate.Validator) *validate.Validator { return v.Required("title", "  \t") }, false},

		{"length lower bound", func(v *validate.Validator) *validate.Validator { return v.Length("username", "bob", 3, 50) }, true},
		{"length too short", func(v *validate.Validator) *validate.Validator { return v.Length("username", "bo", 3, 50) }, false},
		{"length counts runes", func(v *validate.Validator) *validate.Validator { return v.Length("username", "Zoë", 3, 3) }, true},
		{"max bytes ascii", func(v *validate.Validator) *validate.Validator { return v.MaxBytes("password", "abcd", 4) }, true},
		{"max bytes multibyte", func(v *validate.Validator) *validate.Validator { return v.MaxBytes("password", "ééé", 4) }, false},
		{"max len", func(v *validate.Validator) *validate.Validator { return v.MaxLen("name", "abcdef", 5) }, false},

		{"range low", func(v *validate.Validator) *validate.Validator { return v.Range("rate", 1, 1, 5) }, true},
		{"range high", func(v *validate.Validator) *validate.Validator { return v.Range("rate", 5, 1, 5) }, true},
		{"range zero", func(v *validate.Validator) *validate.Validator { return v.Range("rate", 0, 1, 5) }, false},
		{"range six", func(v *validate.Validator) *validate.Validator { return v.Range("rate", 6, 1, 5) }, false},

		{"email", func(v *validate.Validator) *validate.Validator { return v.Email("email", "reader@blablabook.app") }, true},
		{"email no domain", func(v *validate.Validator) *validate.Validator { return v.Email("email", "reader@") }, false},
		{"email display name", func(v *validate.Validator) *validate.Validator {
			return v.Email("email", "Reader <reader@blablabook.app>")
		}, false},

		{"url", func(v *validate.Validator) *validate.Validator {
			return v.URL("image_url", "https://covers.openlibrary.org/a/id/1-M.jpg")
		}, true},
		{"url relative", func(v *validate.Validator) *validate.Validator { return v.URL("image_url", "covers/a.jpg") }, false},
		{"url ftp", func(v *validate.Validator) *validate.Validator { return v.URL("image_url", "ftp://example.org/a.jpg") }, false},

		{"positive", func(v *validate.Validator) *validate.Validator { return v.Positive("id_book", 7) }, true},
		{"positive zero", func(v *validate.Validator) *validate.Validator { return v.Positive("id_book", 0) }, false},

		{"one of", func(v *validate.Validator) *validate.Validator { return v.OneOf("status", "read", "read", "reading") }, true},
		{"one of miss", func(v *validate.Validator) *validate.Validator { return v.OneOf("status", "lost", "read", "reading") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(&validate.Validator{}).Err()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.Len(t, details(t, err), 1)
		})
	}
}

func TestChainAccumulates(t *testing.T) {
	err := (&validate.Validator{}).
		Required("username", "").
		Length("username", "", 3, 50).
		Email("email", "not-an-email").
		OneOf("status", "lost", "read", "reading").
		Err()

	fields := details(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, "username", fields[0].Field)
	assert.Equal(t, "email", fields[2].Field)
	assert.Contains(t, fields[3].Message, "read, reading")
}

func TestRequiredError(t *testing.T) {
	fields := details(t, validate.RequiredError("id_book", "Missing book"))
	assert.Equal(t, []apperr.FieldError{{Field: "id_book", Message: "Missing book"}}, fields)
}
