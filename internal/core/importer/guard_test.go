// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/testutil"
)

func TestLocalGuard_SerializesSameKey(t *testing.T) {
	guard := importer.NewLocalGuard()
	exerciseGuard(t, guard)
	assert.Zero(t, guard.InFlight())
}

func TestLocalGuard_DistinctKeysDoNotBlock(t *testing.T) {
	guard := importer.NewLocalGuard()
	ctx := context.Background()

	releaseA, err := guard.Acquire(ctx, "/works/OL1W")
	require.NoError(t, err)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB, err := guard.Acquire(ctx, "/works/OL2W")
		if err == nil {
			releaseB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire on a distinct key blocked")
	}
}

func TestLocalGuard_WaiterHonoursContext(t *testing.T) {
	guard := importer.NewLocalGuard()

	release, err := guard.Acquire(context.Background(), "/works/OL1W")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = guard.Acquire(ctx, "/works/OL1W")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release() // second call is ignored
	assert.Zero(t, guard.InFlight())
}

func TestRedisGuard_SerializesSameKey(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	options, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })

	exerciseGuard(t, importer.NewRedisGuard(client, 5*time.Second, 5*time.Millisecond, testutil.Logger()))
}

// exerciseGuard checks that no two holders of the same key ever overlap.
func exerciseGuard(t *testing.T, guard importer.Guard) {
	t.Helper()

	const workers = 8
	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		overlap atomic.Bool
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := guard.Acquire(context.Background(), "/works/OLGUARDW")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			if holders.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(2 * time.Millisecond)
			holders.Add(-1)
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load())
}
