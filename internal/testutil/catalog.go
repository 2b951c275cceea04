// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/blablabook/internal/core/author"
	"github.com/taibuivan/blablabook/internal/core/book"
	"github.com/taibuivan/blablabook/internal/core/genre"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

// # Books

// BookRepository implements [book.Repository].
type BookRepository struct {
	store *Store
}

// hydrate must be called with mu held.
func (repository *BookRepository) hydrate(b book.Book) *book.Book {
	data := repository.store.data

	type ordered[T any] struct {
		order int64
		value T
	}

	var authors []ordered[author.Author]
	for l, order := range data.bookAuthors {
		if l.bookID == b.ID {
			authors = append(authors, ordered[author.Author]{order, data.authors[l.otherID]})
		}
	}
	slices.SortFunc(authors, func(x, y ordered[author.Author]) int { return cmp.Compare(x.order, y.order) })

	var genres []ordered[genre.Genre]
	for l, order := range data.bookGenres {
		if l.bookID == b.ID {
			genres = append(genres, ordered[genre.Genre]{order, data.genres[l.otherID]})
		}
	}
	slices.SortFunc(genres, func(x, y ordered[genre.Genre]) int { return cmp.Compare(x.order, y.order) })

	b.Authors = make([]author.Author, len(authors))
	for i, a := range authors {
		b.Authors[i] = a.value
	}
	b.Genres = make([]genre.Genre, len(genres))
	for i, g := range genres {
		b.Genres[i] = g.value
	}
	return &b
}

func (repository *BookRepository) ListBooks(ctx context.Context, filter book.Filter, limit, offset int) ([]*book.Book, int, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("ListBooks"); err != nil {
		return nil, 0, err
	}

	var matched []*book.Book
	for _, b := range store.data.books {
		hydrated := repository.hydrate(b)
		if filter.Query != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(filter.Query)) {
			continue
		}
		if len(filter.GenreIDs) > 0 && !slices.ContainsFunc(hydrated.Genres, func(g genre.Genre) bool { return slices.Contains(filter.GenreIDs, g.ID) }) {
			continue
		}
		if filter.AuthorID != nil && !slices.ContainsFunc(hydrated.Authors, func(a author.Author) bool { return a.ID == *filter.AuthorID }) {
			continue
		}
		matched = append(matched, hydrated)
	}

	slices.SortFunc(matched, func(x, y *book.Book) int {
		return cmp.Or(cmp.Compare(x.Title, y.Title), cmp.Compare(x.ID, y.ID))
	})
	return page(matched, limit, offset), len(matched), nil
}

func (repository *BookRepository) GetBook(ctx context.Context, id int64) (*book.Book, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("GetBook"); err != nil {
		return nil, err
	}

	b, ok := store.data.books[id]
	if !ok {
		return nil, book.ErrNotFound
	}
	return repository.hydrate(b), nil
}

func (repository *BookRepository) GetByOpenLibraryKey(ctx context.Context, key string) (*book.Book, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("GetByOpenLibraryKey"); err != nil {
		return nil, err
	}

	for _, b := range store.data.books {
		if b.OpenLibraryKey != nil && *b.OpenLibraryKey == key {
			return repository.hydrate(b), nil
		}
	}
	return nil, book.ErrNotFound
}

// LockBook is GetBook; transactions are already serialized.
func (repository *BookRepository) LockBook(ctx context.Context, id int64) (*book.Book, error) {
	return repository.GetBook(ctx, id)
}

func (repository *BookRepository) CreateBook(ctx context.Context, b *book.Book) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("CreateBook"); err != nil {
		return err
	}

	if b.OpenLibraryKey != nil {
		for _, existing := range store.data.books {
			if existing.OpenLibraryKey != nil && *existing.OpenLibraryKey == *b.OpenLibraryKey {
				return apperr.Conflict("Resource already exists")
			}
		}
	}

	b.ID = store.nextID()
	b.CreatedAt, b.UpdatedAt = store.Now(), store.Now()

	row := *b
	row.Authors, row.Genres = nil, nil
	store.data.books[b.ID] = row
	return nil
}

func (repository *BookRepository) LinkAuthor(ctx context.Context, bookID, authorID int64) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("LinkAuthor"); err != nil {
		return err
	}

	l := link{bookID: bookID, otherID: authorID}
	if _, ok := store.data.bookAuthors[l]; !ok {
		store.data.bookAuthors[l] = store.nextID()
	}
	return nil
}

func (repository *BookRepository) LinkGenre(ctx context.Context, bookID, genreID int64) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("LinkGenre"); err != nil {
		return err
	}

	l := link{bookID: bookID, otherID: genreID}
	if _, ok := store.data.bookGenres[l]; !ok {
		store.data.bookGenres[l] = store.nextID()
	}
	return nil
}

func (repository *BookRepository) Confirm(ctx context.Context, id int64) (bool, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("Confirm"); err != nil {
		return false, err
	}

	b, ok := store.data.books[id]
	if !ok || b.ImportStatus != book.StatusTemporary {
		return false, nil
	}
	b.ImportStatus = book.StatusConfirmed
	b.UpdatedAt = store.Now()
	store.data.books[id] = b
	return true, nil
}

func (repository *BookRepository) CountEngagements(ctx context.Context, id int64) (int, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("CountEngagements"); err != nil {
		return 0, err
	}

	count := 0
	for _, r := range store.data.rates {
		if r.BookID == id {
			count++
		}
	}
	for _, n := range store.data.notices {
		if n.BookID == id {
			count++
		}
	}
	for _, e := range store.data.entries {
		if e.BookID == id {
			count++
		}
	}
	return count, nil
}

func (repository *BookRepository) DeleteBook(ctx context.Context, id int64) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("DeleteBook"); err != nil {
		return err
	}

	if _, ok := store.data.books[id]; !ok {
		return book.ErrNotFound
	}
	store.deleteBook(id)
	return nil
}

func (repository *BookRepository) DeleteTemporaryImportedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("DeleteTemporaryImportedBefore"); err != nil {
		return 0, err
	}

	var deleted int64
	for id, b := range store.data.books {
		if b.ImportStatus == book.StatusTemporary && b.ImportedAt != nil && b.ImportedAt.Before(cutoff) {
			store.deleteBook(id)
			deleted++
		}
	}
	return deleted, nil
}

// deleteBook cascades like the schema. It must be called with mu held.
func (store *Store) deleteBook(id int64) {
	delete(store.data.books, id)
	for l := range store.data.bookAuthors {
		if l.bookID == id {
			delete(store.data.bookAuthors, l)
		}
	}
	for l := range store.data.bookGenres {
		if l.bookID == id {
			delete(store.data.bookGenres, l)
		}
	}
	for rid, r := range store.data.rates {
		if r.BookID == id {
			delete(store.data.rates, rid)
		}
	}
	for nid, n := range store.data.notices {
		if n.BookID == id {
			delete(store.data.notices, nid)
		}
	}
	for eid, e := range store.data.entries {
		if e.BookID == id {
			delete(store.data.entries, eid)
		}
	}
}

// # Authors

// AuthorRepository implements [author.Repository].
type AuthorRepository struct {
	store *Store
}

func (repository *AuthorRepository) ListAuthors(ctx context.Context, filter author.Filter, limit, offset int) ([]*author.Author, int, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []*author.Author
	for _, a := range store.data.authors {
		if filter.Query != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Query)) {
			continue
		}
		matched = append(matched, &a)
	}
	slices.SortFunc(matched, func(x, y *author.Author) int {
		return cmp.Or(cmp.Compare(x.Name, y.Name), cmp.Compare(x.ID, y.ID))
	})
	return page(matched, limit, offset), len(matched), nil
}

func (repository *AuthorRepository) GetAuthor(ctx context.Context, id int64) (*author.Author, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	a, ok := store.data.authors[id]
	if !ok {
		return nil, author.ErrNotFound
	}
	return &a, nil
}

func (repository *AuthorRepository) CreateAuthor(ctx context.Context, a *author.Author) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	a.ID = store.nextID()
	a.CreatedAt, a.UpdatedAt = store.Now(), store.Now()
	store.data.authors[a.ID] = *a
	return nil
}

func (repository *AuthorRepository) UpdateAuthor(ctx context.Context, a *author.Author) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	existing, ok := store.data.authors[a.ID]
	if !ok {
		return author.ErrNotFound
	}
	a.OpenLibraryKey = existing.OpenLibraryKey
	a.CreatedAt, a.UpdatedAt = existing.CreatedAt, store.Now()
	store.data.authors[a.ID] = *a
	return nil
}

func (repository *AuthorRepository) DeleteAuthor(ctx context.Context, id int64) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.data.authors[id]; !ok {
		return author.ErrNotFound
	}
	delete(store.data.authors, id)
	for l := range store.data.bookAuthors {
		if l.otherID == id {
			delete(store.data.bookAuthors, l)
		}
	}
	return nil
}

func (repository *AuthorRepository) FindOrCreateByOpenLibraryKey(ctx context.Context, key, name string) (*author.Author, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("FindOrCreateByOpenLibraryKey"); err != nil {
		return nil, err
	}

	for _, a := range store.data.authors {
		if a.OpenLibraryKey != nil && *a.OpenLibraryKey == key {
			return &a, nil
		}
	}

	a := author.Author{ID: store.nextID(), Name: name, OpenLibraryKey: &key, CreatedAt: store.Now(), UpdatedAt: store.Now()}
	store.data.authors[a.ID] = a
	return &a, nil
}

func (repository *AuthorRepository) ApplyEnrichment(ctx context.Context, id int64, name string, imageURL, bio *string) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("ApplyEnrichment"); err != nil {
		return err
	}

	a, ok := store.data.authors[id]
	if !ok {
		return author.ErrNotFound
	}
	if name != "" {
		a.Name = name
	}
	if imageURL != nil && *imageURL != "" {
		a.ImageURL = imageURL
	}
	if bio != nil && *bio != "" {
		a.Bio = bio
	}
	a.UpdatedAt = store.Now()
	store.data.authors[id] = a
	return nil
}

// # Genres

// GenreRepository implements [genre.Repository].
type GenreRepository struct {
	store *Store
}

func (repository *GenreRepository) ListGenres(ctx context.Context) ([]*genre.Genre, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	genres := make([]*genre.Genre, 0, len(store.data.genres))
	for _, g := range store.data.genres {
		genres = append(genres, &g)
	}
	slices.SortFunc(genres, func(x, y *genre.Genre) int { return cmp.Compare(x.Name, y.Name) })
	return genres, nil
}

func (repository *GenreRepository) GetGenre(ctx context.Context, id int64) (*genre.Genre, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	g, ok := store.data.genres[id]
	if !ok {
		return nil, genre.ErrNotFound
	}
	return &g, nil
}

func (repository *GenreRepository) FindOrCreate(ctx context.Context, name, slug string) (*genre.Genre, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("FindOrCreate"); err != nil {
		return nil, err
	}

	for _, g := range store.data.genres {
		if g.Slug == slug {
			return &g, nil
		}
	}

	g := genre.Genre{ID: store.nextID(), Name: name, Slug: slug, CreatedAt: store.Now()}
	store.data.genres[g.ID] = g
	return &g, nil
}
