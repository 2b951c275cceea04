// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/testutil"
)

func TestSweeper_TickDeletesStaleImports(t *testing.T) {
	store, _, engine := newFixture(t)
	ctx := context.Background()

	preparation, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)
	store.SetImportedAt(preparation.Book.ID, store.Now().Add(-2*time.Hour))

	sweeper := importer.NewSweeper(engine, time.Minute, 60, testutil.Logger())

	deleted, err := sweeper.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Zero(t, store.BookCount())
}

func TestSweeper_RunStopsWithContext(t *testing.T) {
	_, _, engine := newFixture(t)
	sweeper := importer.NewSweeper(engine, time.Millisecond, 60, testutil.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
