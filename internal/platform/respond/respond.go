// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Envelope
//
// Every response carries a "success" flag. Successful responses wrap the payload
// in "data" (plus "meta" for paginated lists); failures carry a human-readable
// "error" and a machine-readable "code". Stack traces and raw driver or adapter
// errors never reach the client.
package respond

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/ctxutil"
	"github.com/taibuivan/blablabook/pkg/pagination"
)

// SuccessEnvelope is the JSON envelope for successful single-resource responses.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	Success bool            `json:"success"`
	Data    any             `json:"data"`
	Meta    pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes payload with statusCode. Encoding failures after the header is
// sent can only be logged.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		slog.Default().Warn("response_encode_failed", slog.Int("status", statusCode), slog.Any("error", err))
	}
}

func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Success: true, Data: data})
}

func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Success: true, Data: data})
}

// Paginated wraps a page of data with its [pagination.Meta].
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Success: true, Data: data, Meta: metadata})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error renders err as an [ErrorEnvelope]. Errors that are not an
// [apperr.AppError] become INTERNAL_ERROR. Server errors and failed imports are
// logged with their cause; other client errors are not.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	ctx := request.Context()
	switch {
	case appError.HTTPStatus >= http.StatusInternalServerError:
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error", errorAttrs(ctx, appError)...)
	case appError.Code == apperr.CodeImportFailed:
		ctxutil.GetLogger(ctx).WarnContext(ctx, "api_import_failed", errorAttrs(ctx, appError)...)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Success: false,
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

func errorAttrs(ctx context.Context, appError *apperr.AppError) []any {
	return []any{
		slog.String("code", appError.Code),
		slog.String("request_id", ctxutil.GetRequestID(ctx)),
		slog.Any("cause", appError.Cause),
	}
}
