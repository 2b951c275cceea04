// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads path parameters, query values, JSON bodies and the
authenticated caller from an *http.Request, turning malformed input into
VALIDATION_ERROR responses.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/ctxutil"
	"github.com/taibuivan/blablabook/internal/platform/sec"
	"github.com/taibuivan/blablabook/internal/platform/validate"
)

// MaxBodyBytes bounds every JSON payload. Notices are the largest at a few KB.
const MaxBodyBytes = 1 << 20

/*
DecodeJSON decodes exactly one JSON value from the body into target.

Returns:
  - apperr PAYLOAD_TOO_LARGE past [MaxBodyBytes]
  - validate.ErrInvalidJSON for malformed or trailing content
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, MaxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
			return apperr.PayloadTooLarge(maxErr.Limit)
		}
		return validate.ErrInvalidJSON
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID parses a positive integer path parameter.
func ID(request *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return id, nil
}

// QueryInt returns fallback when the parameter is absent or not an integer.
func QueryInt(request *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(request.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return value
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
RequiredUserID returns the ID of the currently logged-in user.
*/
func RequiredUserID(request *http.Request) (int64, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
