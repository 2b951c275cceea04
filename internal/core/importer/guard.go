// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"context"
	"sync"
)

// Guard serializes imports of the same OpenLibrary key.
//
// Acquire blocks until the caller owns key or ctx ends. The returned release
// must be called exactly once; extra calls are ignored.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// LocalGuard is an in-process [Guard]. Waiters block on the owner's completion
// channel instead of polling.
type LocalGuard struct {
	mu       sync.Mutex
	inflight map[string]chan struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{inflight: make(map[string]chan struct{})}
}

func (guard *LocalGuard) Acquire(ctx context.Context, key string) (func(), error) {
	for {
		guard.mu.Lock()
		done, busy := guard.inflight[key]
		if !busy {
			done = make(chan struct{})
			guard.inflight[key] = done
			guard.mu.Unlock()
			return guard.releaser(key, done), nil
		}
		guard.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// InFlight returns the number of keys currently held.
func (guard *LocalGuard) InFlight() int {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	return len(guard.inflight)
}

func (guard *LocalGuard) releaser(key string, done chan struct{}) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			guard.mu.Lock()
			delete(guard.inflight, key)
			guard.mu.Unlock()
			close(done)
		})
	}
}
