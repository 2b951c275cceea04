// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/blablabook/internal/platform/request"
	"github.com/taibuivan/blablabook/internal/platform/sec"
	"github.com/taibuivan/blablabook/internal/platform/validate"
)

type rateBody struct {
	BookID int64 `json:"id_book"`
	Rate   int   `json:"rate"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"valid", `{"id_book": 3, "rate": 4}`, ""},
		{"trailing whitespace", "{\"rate\": 4}\n  ", ""},
		{"empty", ``, apperr.CodeValidation},
		{"malformed", `{"rate":`, apperr.CodeValidation},
		{"two values", `{"rate": 4}{"rate": 5}`, apperr.CodeValidation},
		{"too large", `{"notice": "` + strings.Repeat("x", requestutil.MaxBodyBytes) + `"}`, apperr.CodePayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader(tt.body))

			var body rateBody
			err := requestutil.DecodeJSON(httptest.NewRecorder(), request, &body)
			if tt.code == "" {
				require.NoError(t, err)
				assert.Equal(t, 4, body.Rate)
				return
			}
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.code, appError.Code)
		})
	}

	assert.Same(t, validate.ErrInvalidJSON, apperr.As(
		requestutil.DecodeJSON(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("nope")), &rateBody{}),
	))
}

func TestID(t *testing.T) {
	withParam := func(value string) *http.Request {
		routeContext := chi.NewRouteContext()
		routeContext.URLParams.Add("id", value)
		request := httptest.NewRequest(http.MethodGet, "/books/"+value, nil)
		return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
	}

	id, err := requestutil.ID(withParam("42"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := requestutil.ID(withParam(bad), "id")
		assert.Error(t, err, bad)
	}
}

func TestQueryInt(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/admin/imports/temporary?limit=7&older_than_minutes=soon", nil)

	assert.Equal(t, 7, requestutil.QueryInt(request, "limit", 20))
	assert.Equal(t, 60, requestutil.QueryInt(request, "older_than_minutes", 60))
	assert.Equal(t, 5, requestutil.QueryInt(request, "missing", 5))
}

func TestClaims(t *testing.T) {
	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, requestutil.Claims(anonymous))
	_, err := requestutil.RequiredUserID(anonymous)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.As(err).Code)

	signedIn := anonymous.WithContext(ctxutil.WithAuthUser(anonymous.Context(), &sec.AuthClaims{UserID: 8}))
	id, err := requestutil.RequiredUserID(signedIn)
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
}
