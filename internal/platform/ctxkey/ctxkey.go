// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys shared by middleware and ctxutil.
package ctxkey

// Key is a distinct type so these never collide with keys from other packages.
type Key int

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID Key = iota

	// KeyUser holds the verified [sec.AuthClaims].
	KeyUser

	// KeyLogger holds the request-scoped *slog.Logger.
	KeyLogger
)
