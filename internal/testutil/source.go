// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/taibuivan/blablabook/internal/platform/openlibrary"
)

const coversBase = "https://covers.test"

// StubSource is a canned OpenLibrary catalogue.
type StubSource struct {
	mu      sync.Mutex
	works   map[string]openlibrary.Work
	authors map[string]openlibrary.Author

	// Delay is applied to every GetWork call, to widen race windows.
	Delay time.Duration

	workCalls   atomic.Int32
	authorCalls atomic.Int32
}

func NewStubSource() *StubSource {
	return &StubSource{
		works:   map[string]openlibrary.Work{},
		authors: map[string]openlibrary.Author{},
	}
}

// AddWork registers work under its key.
func (source *StubSource) AddWork(work openlibrary.Work) *StubSource {
	key, _ := openlibrary.WorkKey(work.Key)
	work.Key = key

	source.mu.Lock()
	defer source.mu.Unlock()
	source.works[key] = work
	return source
}

// AddAuthor registers an author under its key.
func (source *StubSource) AddAuthor(a openlibrary.Author) *StubSource {
	a.Key = openlibrary.AuthorKey(a.Key)

	source.mu.Lock()
	defer source.mu.Unlock()
	source.authors[a.Key] = a
	return source
}

func (source *StubSource) WorkCalls() int   { return int(source.workCalls.Load()) }
func (source *StubSource) AuthorCalls() int { return int(source.authorCalls.Load()) }

func (source *StubSource) GetWork(ctx context.Context, key string) (*openlibrary.Work, error) {
	source.workCalls.Add(1)

	if source.Delay > 0 {
		select {
		case <-time.After(source.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	workKey, ok := openlibrary.WorkKey(key)
	if !ok {
		return nil, fmt.Errorf("openlibrary: invalid work key %q", key)
	}

	source.mu.Lock()
	defer source.mu.Unlock()

	work, found := source.works[workKey]
	if !found {
		return nil, openlibrary.ErrNotFound
	}
	return &work, nil
}

func (source *StubSource) GetAuthor(ctx context.Context, key string) (*openlibrary.Author, error) {
	source.authorCalls.Add(1)

	source.mu.Lock()
	defer source.mu.Unlock()

	a, found := source.authors[openlibrary.AuthorKey(key)]
	if !found {
		return nil, openlibrary.ErrNotFound
	}
	return &a, nil
}

func (source *StubSource) SearchWorks(ctx context.Context, query string, limit int) (*openlibrary.SearchResult, error) {
	source.mu.Lock()
	defer source.mu.Unlock()

	result := &openlibrary.SearchResult{Docs: []openlibrary.SearchDoc{}}
	for _, work := range source.works {
		if !strings.Contains(strings.ToLower(work.Title), strings.ToLower(query)) {
			continue
		}
		result.NumFound++
		if len(result.Docs) < limit {
			result.Docs = append(result.Docs, openlibrary.SearchDoc{Key: work.Key, Title: work.Title})
		}
	}
	return result, nil
}

func (source *StubSource) CoverURL(coverID int) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", coversBase, coverID)
}

func (source *StubSource) AuthorPhotoURL(photoID int) string {
	return fmt.Sprintf("%s/a/id/%d-M.jpg", coversBase, photoID)
}

// MockSource is a testify mock of the OpenLibrary client, for tests that
// assert exact calls.
type MockSource struct {
	mock.Mock
}

func (source *MockSource) GetWork(ctx context.Context, key string) (*openlibrary.Work, error) {
	args := source.Called(ctx, key)
	work, _ := args.Get(0).(*openlibrary.Work)
	return work, args.Error(1)
}

func (source *MockSource) GetAuthor(ctx context.Context, key string) (*openlibrary.Author, error) {
	args := source.Called(ctx, key)
	a, _ := args.Get(0).(*openlibrary.Author)
	return a, args.Error(1)
}

func (source *MockSource) SearchWorks(ctx context.Context, query string, limit int) (*openlibrary.SearchResult, error) {
	args := source.Called(ctx, query, limit)
	result, _ := args.Get(0).(*openlibrary.SearchResult)
	return result, args.Error(1)
}

func (source *MockSource) CoverURL(coverID int) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", coversBase, coverID)
}

func (source *MockSource) AuthorPhotoURL(photoID int) string {
	return fmt.Sprintf("%s/a/id/%d-M.jpg", coversBase, photoID)
}
