// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type shared by every BlaBlaBook service.

An [AppError] carries the HTTP status, a machine-readable code and a client-safe
message. Expected business outcomes (not found, conflict, forbidden) are returned
as AppErrors by the services; anything else is wrapped with [Internal] at the edge.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes sent in the "code" field of error bodies.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnprocessable      = "UNPROCESSABLE"
	CodeRateLimited        = "RATE_LIMITED"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeImportFailed       = "BOOK_IMPORT_FAILED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AppError is the canonical error type for the API.
//
// Cause is logged server-side and never serialized, so SQL text and upstream
// payloads stay out of responses.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one failed field of a VALIDATION_ERROR.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy of e carrying cause for the logs.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func newError(status int, code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: status}
}

// # Client Errors (4xx)

// NotFound builds "<resource> not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// Conflict reports a unique-constraint clash such as a second rate on the same book.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	e := newError(http.StatusBadRequest, CodeValidation, msg)
	e.Details = details
	return e
}

func Unprocessable(msg string) *AppError {
	return newError(http.StatusUnprocessableEntity, CodeUnprocessable, msg)
}

func PayloadTooLarge(limit int64) *AppError {
	return newError(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
		fmt.Sprintf("Request body exceeds %d bytes", limit))
}

// RateLimited is a 429; the caller also sets Retry-After.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// ImportUnavailable is a 404 for a book known only to OpenLibrary that could
// not be imported. Its code lets clients tell it apart from a missing row.
func ImportUnavailable(externalKey string, cause error) *AppError {
	return newError(http.StatusNotFound, CodeImportFailed,
		fmt.Sprintf("Book %q could not be retrieved from OpenLibrary", externalKey)).WithCause(cause)
}

// # Server Errors (5xx)

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred").WithCause(cause)
}

func ServiceUnavailable(msg string) *AppError {
	return newError(http.StatusServiceUnavailable, CodeServiceUnavailable, msg)
}

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
