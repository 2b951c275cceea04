// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/platform/ctxutil"
	"github.com/taibuivan/blablabook/internal/platform/sec"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "0192f0c4-rid")
	assert.Equal(t, "0192f0c4-rid", ctxutil.GetRequestID(ctx))
}

func TestGetLogger(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx), "falls back to the default logger")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, logger, ctxutil.GetLogger(ctxutil.WithLogger(ctx, logger)))

	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctxutil.WithLogger(ctx, nil)), "a nil logger is ignored")
}

func TestAuthUser(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	id, ok := ctxutil.UserID(ctx)
	assert.False(t, ok)
	assert.Zero(t, id)

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: 42, Role: string(sec.RoleModerator)})

	claims := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, claims)
	assert.Equal(t, string(sec.RoleModerator), claims.Role)

	id, ok = ctxutil.UserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
