// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"time"
)

// Repository persists books and their author/genre links.
//
// Every method joins the transaction carried by the context, if any.
type Repository interface {
	ListBooks(context context.Context, f Filter, limit, offset int) ([]*Book, int, error)

	// GetBook and GetByOpenLibraryKey hydrate Authors and Genres.
	GetBook(context context.Context, id int64) (*Book, error)
	GetByOpenLibraryKey(context context.Context, key string) (*Book, error)

	// LockBook reads the bare row with SELECT ... FOR UPDATE.
	LockBook(context context.Context, id int64) (*Book, error)

	CreateBook(context context.Context, b *Book) error
	LinkAuthor(context context.Context, bookID, authorID int64) error
	LinkGenre(context context.Context, bookID, genreID int64) error

	// Confirm promotes a temporary book. It reports false when the book was already confirmed.
	Confirm(context context.Context, id int64) (bool, error)

	// CountEngagements counts rates, notices and reading-list entries referencing the book.
	CountEngagements(context context.Context, id int64) (int, error)

	DeleteBook(context context.Context, id int64) error

	// DeleteTemporaryImportedBefore removes every temporary book imported before cutoff.
	DeleteTemporaryImportedBefore(context context.Context, cutoff time.Time) (int64, error)
}
