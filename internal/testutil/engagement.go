// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/taibuivan/blablabook/internal/library"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/social/notice"
	"github.com/taibuivan/blablabook/internal/social/rate"
)

var errForeignKey = apperr.Internal(errors.New("foreign key violation"))

// bookExists must be called with mu held.
func (store *Store) bookExists(id int64) bool {
	_, ok := store.data.books[id]
	return ok
}

func newestFirst[T any](items []*T, created func(*T) int64) {
	slices.SortFunc(items, func(x, y *T) int { return cmp.Compare(created(y), created(x)) })
}

// # Rates

// RateRepository implements [rate.Repository].
type RateRepository struct {
	store *Store
}

func (repository *RateRepository) ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]*rate.Rate, int, error) {
	return repository.list(func(r rate.Rate) bool { return r.BookID == bookID }, limit, offset)
}

func (repository *RateRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*rate.Rate, int, error) {
	return repository.list(func(r rate.Rate) bool { return r.UserID == userID }, limit, offset)
}

func (repository *RateRepository) list(match func(rate.Rate) bool, limit, offset int) ([]*rate.Rate, int, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []*rate.Rate
	for _, r := range store.data.rates {
		if match(r) {
			matched = append(matched, &r)
		}
	}
	newestFirst(matched, func(r *rate.Rate) int64 { return r.ID })
	return page(matched, limit, offset), len(matched), nil
}

func (repository *RateRepository) GetRate(ctx context.Context, id int64) (*rate.Rate, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	r, ok := store.data.rates[id]
	if !ok {
		return nil, rate.ErrNotFound
	}
	return &r, nil
}

func (repository *RateRepository) FindByUserAndBook(ctx context.Context, userID, bookID int64) (*rate.Rate, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, r := range store.data.rates {
		if r.UserID == userID && r.BookID == bookID {
			return &r, nil
		}
	}
	return nil, rate.ErrNotFound
}

func (repository *RateRepository) CreateRate(ctx context.Context, r *rate.Rate) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("CreateRate"); err != nil {
		return err
	}
	if !store.bookExists(r.BookID) {
		return errForeignKey
	}
	for _, existing := range store.data.rates {
		if existing.UserID == r.UserID && existing.BookID == r.BookID {
			return rate.ErrDuplicate
		}
	}

	r.ID = store.nextID()
	r.CreatedAt, r.UpdatedAt = store.Now(), store.Now()
	store.data.rates[r.ID] = *r
	return nil
}

func (repository *RateRepository) UpdateScore(ctx context.Context, id int64, score int) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	r, ok := store.data.rates[id]
	if !ok {
		return rate.ErrNotFound
	}
	r.Score = score
	r.UpdatedAt = store.Now()
	store.data.rates[id] = r
	return nil
}

func (repository *RateRepository) DeleteRate(ctx context.Context, id int64) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.data.rates[id]; !ok {
		return rate.ErrNotFound
	}
	delete(store.data.rates, id)
	return nil
}

func (repository *RateRepository) Summarize(ctx context.Context, bookID int64) (*rate.Summary, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	summary := &rate.Summary{BookID: bookID}
	total := 0
	for _, r := range store.data.rates {
		if r.BookID == bookID {
			summary.Count++
			total += r.Score
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}

// # Notices

// NoticeRepository implements [notice.Repository].
type NoticeRepository struct {
	store *Store
}

func (repository *NoticeRepository) ListByBook(ctx context.Context, bookID, viewerID int64, limit, offset int) ([]*notice.Notice, int, error) {
	return repository.list(func(n notice.Notice) bool {
		return n.BookID == bookID && (n.IsPublic || n.UserID == viewerID)
	}, limit, offset)
}

func (repository *NoticeRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*notice.Notice, int, error) {
	return repository.list(func(n notice.Notice) bool { return n.UserID == userID }, limit, offset)
}

func (repository *NoticeRepository) list(match func(notice.Notice) bool, limit, offset int) ([]*notice.Notice, int, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []*notice.Notice
	for _, n := range store.data.notices {
		if match(n) {
			matched = append(matched, &n)
		}
	}
	newestFirst(matched, func(n *notice.Notice) int64 { return n.ID })
	return page(matched, limit, offset), len(matched), nil
}

func (repository *NoticeRepository) GetNotice(ctx context.Context, id int64) (*notice.Notice, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	n, ok := store.data.notices[id]
	if !ok {
		return nil, notice.ErrNotFound
	}
	return &n, nil
}

func (repository *NoticeRepository) CreateNotice(ctx context.Context, n *notice.Notice) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("CreateNotice"); err != nil {
		return err
	}
	if !store.bookExists(n.BookID) {
		return errForeignKey
	}

	n.ID = store.nextID()
	n.CreatedAt, n.UpdatedAt = store.Now(), store.Now()
	store.data.notices[n.ID] = *n
	return nil
}

func (repository *NoticeRepository) UpdateNotice(ctx context.Context, n *notice.Notice) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.data.notices[n.ID]; !ok {
		return notice.ErrNotFound
	}
	n.UpdatedAt = store.Now()
	store.data.notices[n.ID] = *n
	return nil
}

func (repository *NoticeRepository) DeleteNotice(ctx context.Context, id int64) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.data.notices[id]; !ok {
		return notice.ErrNotFound
	}
	delete(store.data.notices, id)
	return nil
}

// # Libraries

// LibraryRepository implements [library.Repository].
type LibraryRepository struct {
	store *Store
}

func (repository *LibraryRepository) ListLibraries(ctx context.Context, userID int64) ([]*library.Library, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	libraries := make([]*library.Library, 0)
	for _, l := range store.data.libraries {
		if l.UserID == userID {
			libraries = append(libraries, &l)
		}
	}
	slices.SortFunc(libraries, func(x, y *library.Library) int { return cmp.Compare(x.Name, y.Name) })
	return libraries, nil
}

func (repository *LibraryRepository) GetLibrary(ctx context.Context, id int64) (*library.Library, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	l, ok := store.data.libraries[id]
	if !ok {
		return nil, library.ErrNotFound
	}
	return &l, nil
}

func (repository *LibraryRepository) CreateLibrary(ctx context.Context, l *library.Library) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	l.ID = store.nextID()
	l.CreatedAt, l.UpdatedAt = store.Now(), store.Now()
	store.data.libraries[l.ID] = *l
	return nil
}

func (repository *LibraryRepository) UpdateLibrary(ctx context.Context, l *library.Library) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.data.libraries[l.ID]; !ok {
		return library.ErrNotFound
	}
	l.UpdatedAt = store.Now()
	store.data.libraries[l.ID] = *l
	return nil
}

func (repository *LibraryRepository) DeleteLibrary(ctx context.Context, id int64) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.data.libraries[id]; !ok {
		return library.ErrNotFound
	}
	delete(store.data.libraries, id)
	for eid, e := range store.data.entries {
		if e.LibraryID == id {
			delete(store.data.entries, eid)
		}
	}
	return nil
}

func (repository *LibraryRepository) ListEntries(ctx context.Context, libraryID int64, limit, offset int) ([]*library.Entry, int, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []*library.Entry
	for _, e := range store.data.entries {
		if e.LibraryID == libraryID {
			matched = append(matched, &e)
		}
	}
	newestFirst(matched, func(e *library.Entry) int64 { return e.ID })
	return page(matched, limit, offset), len(matched), nil
}

func (repository *LibraryRepository) GetEntry(ctx context.Context, id int64) (*library.Entry, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	e, ok := store.data.entries[id]
	if !ok {
		return nil, library.ErrEntryNotFound
	}
	return &e, nil
}

func (repository *LibraryRepository) FindEntry(ctx context.Context, libraryID, bookID int64) (*library.Entry, error) {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, e := range store.data.entries {
		if e.LibraryID == libraryID && e.BookID == bookID {
			return &e, nil
		}
	}
	return nil, library.ErrEntryNotFound
}

func (repository *LibraryRepository) CreateEntry(ctx context.Context, e *library.Entry) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.injected("CreateEntry"); err != nil {
		return err
	}
	if !store.bookExists(e.BookID) {
		return errForeignKey
	}
	if _, ok := store.data.libraries[e.LibraryID]; !ok {
		return errForeignKey
	}
	for _, existing := range store.data.entries {
		if existing.LibraryID == e.LibraryID && existing.BookID == e.BookID {
			return library.ErrDuplicate
		}
	}

	e.ID = store.nextID()
	e.CreatedAt, e.UpdatedAt = store.Now(), store.Now()
	store.data.entries[e.ID] = *e
	return nil
}

func (repository *LibraryRepository) UpdateEntry(ctx context.Context, e *library.Entry) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.data.entries[e.ID]; !ok {
		return library.ErrEntryNotFound
	}
	e.UpdatedAt = store.Now()
	store.data.entries[e.ID] = *e
	return nil
}

func (repository *LibraryRepository) DeleteEntry(ctx context.Context, id int64) error {
	store := repository.store
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.data.entries[id]; !ok {
		return library.ErrEntryNotFound
	}
	delete(store.data.entries, id)
	return nil
}
