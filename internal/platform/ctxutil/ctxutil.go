// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the request-scoped values that middleware
// attaches to a [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/blablabook/internal/platform/ctxkey"
	"github.com/taibuivan/blablabook/internal/platform/sec"
)

func value[T any](ctx context.Context, key ctxkey.Key) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// WithRequestID attaches the correlation id echoed in X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := value[string](ctx, ctxkey.KeyRequestID)
	return id
}

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger falls back to [slog.Default] so callers never nil-check.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := value[*slog.Logger](ctx, ctxkey.KeyLogger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithAuthUser attaches verified token claims.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := value[*sec.AuthClaims](ctx, ctxkey.KeyUser)
	return claims
}

// UserID is the authenticated caller's id, or zero and false when anonymous.
func UserID(ctx context.Context) (int64, bool) {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.UserID, true
	}
	return 0, false
}
