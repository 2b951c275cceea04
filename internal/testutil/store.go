// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package testutil provides in-memory stand-ins for the Postgres repositories and
the OpenLibrary client.

Every repository view shares one [Store], so cascades and engagement counts
behave like the real schema. [Store.WithinTx] snapshots the whole store and
restores it when the unit of work fails.
*/
package testutil

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/taibuivan/blablabook/internal/core/author"
	"github.com/taibuivan/blablabook/internal/core/book"
	"github.com/taibuivan/blablabook/internal/core/genre"
	"github.com/taibuivan/blablabook/internal/library"
	"github.com/taibuivan/blablabook/internal/social/notice"
	"github.com/taibuivan/blablabook/internal/social/rate"
)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type link struct {
	bookID  int64
	otherID int64
}

type tables struct {
	books       map[int64]book.Book
	authors     map[int64]author.Author
	genres      map[int64]genre.Genre
	bookAuthors map[link]int64 // value is insertion order
	bookGenres  map[link]int64
	rates       map[int64]rate.Rate
	notices     map[int64]notice.Notice
	libraries   map[int64]library.Library
	entries     map[int64]library.Entry
}

func (t tables) clone() tables {
	return tables{
		books:       maps.Clone(t.books),
		authors:     maps.Clone(t.authors),
		genres:      maps.Clone(t.genres),
		bookAuthors: maps.Clone(t.bookAuthors),
		bookGenres:  maps.Clone(t.bookGenres),
		rates:       maps.Clone(t.rates),
		notices:     maps.Clone(t.notices),
		libraries:   maps.Clone(t.libraries),
		entries:     maps.Clone(t.entries),
	}
}

// Store is the shared in-memory database.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	seq      int64
	data     tables
	failures map[string]error

	// Now stamps created and updated columns.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: tables{
			books:       map[int64]book.Book{},
			authors:     map[int64]author.Author{},
			genres:      map[int64]genre.Genre{},
			bookAuthors: map[link]int64{},
			bookGenres:  map[link]int64{},
			rates:       map[int64]rate.Rate{},
			notices:     map[int64]notice.Notice{},
			libraries:   map[int64]library.Library{},
			entries:     map[int64]library.Entry{},
		},
		failures: map[string]error{},
		Now:      time.Now,
	}
}

// FailOnce makes the next call to the named repository method return err.
// Names are the method names, e.g. "LinkGenre" or "CreateRate".
func (store *Store) FailOnce(method string, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.failures[method] = err
}

// injected must be called with mu held.
func (store *Store) injected(method string) error {
	err, ok := store.failures[method]
	if !ok {
		return nil
	}
	delete(store.failures, method)
	return err
}

// nextID must be called with mu held.
func (store *Store) nextID() int64 {
	store.seq++
	return store.seq
}

// # Transactor

type txKey struct{}

// WithinTx runs fn with serializable isolation: transactions never overlap
// and a failed fn leaves the store exactly as it was. Nested calls join the
// outer transaction.
func (store *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	store.txMu.Lock()
	defer store.txMu.Unlock()

	store.mu.Lock()
	snapshot := store.data.clone()
	store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		store.mu.Lock()
		store.data = snapshot
		store.mu.Unlock()
		return err
	}
	return nil
}

// # Views

func (store *Store) Books() *BookRepository { return &BookRepository{store: store} }
func (store *Store) Authors() *AuthorRepository { return &AuthorRepository{store: store} }
func (store *Store) Genres() *GenreRepository { return &GenreRepository{store: store} }
func (store *Store) Rates() *RateRepository { return &RateRepository{store: store} }
func (store *Store) Notices() *NoticeRepository { return &NoticeRepository{store: store} }
func (store *Store) Libraries() *LibraryRepository { return &LibraryRepository{store: store} }

// # Inspection

// BookCount returns the number of stored books.
func (store *Store) BookCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.data.books)
}

// GenreCount returns the number of genres linked to bookID.
func (store *Store) GenreCount(bookID int64) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return countLinks(store.data.bookGenres, bookID)
}

// AuthorLinkCount returns the number of authors linked to bookID.
func (store *Store) AuthorLinkCount(bookID int64) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return countLinks(store.data.bookAuthors, bookID)
}

// NoticeCount returns the number of notices on bookID.
func (store *Store) NoticeCount(bookID int64) int {
	store.mu.Lock()
	defer store.mu.Unlock()

	count := 0
	for _, n := range store.data.notices {
		if n.BookID == bookID {
			count++
		}
	}
	return count
}

// SetImportedAt backdates a book's import timestamp.
func (store *Store) SetImportedAt(bookID int64, at time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if b, ok := store.data.books[bookID]; ok {
		b.ImportedAt = &at
		store.data.books[bookID] = b
	}
}

// SeedBook inserts b as-is and returns its id.
func (store *Store) SeedBook(b book.Book) int64 {
	store.mu.Lock()
	defer store.mu.Unlock()

	b.ID = store.nextID()
	b.CreatedAt, b.UpdatedAt = store.Now(), store.Now()
	store.data.books[b.ID] = b
	return b.ID
}

// SeedLibrary inserts a library owned by userID and returns its id.
func (store *Store) SeedLibrary(userID int64, name string, public bool) int64 {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := store.nextID()
	store.data.libraries[id] = library.Library{
		ID: id, UserID: userID, Name: name, IsPublic: public,
		CreatedAt: store.Now(), UpdatedAt: store.Now(),
	}
	return id
}

func countLinks(links map[link]int64, bookID int64) int {
	count := 0
	for l := range links {
		if l.bookID == bookID {
			count++
		}
	}
	return count
}

// page applies limit and offset to items.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
