// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import "context"

type Repository interface {
	ListLibraries(context context.Context, userID int64) ([]*Library, error)
	GetLibrary(context context.Context, id int64) (*Library, error)
	CreateLibrary(context context.Context, l *Library) error
	UpdateLibrary(context context.Context, l *Library) error
	DeleteLibrary(context context.Context, id int64) error

	ListEntries(context context.Context, libraryID int64, limit, offset int) ([]*Entry, int, error)
	GetEntry(context context.Context, id int64) (*Entry, error)

	// FindEntry returns ErrEntryNotFound when the book is not in the library.
	FindEntry(context context.Context, libraryID, bookID int64) (*Entry, error)

	CreateEntry(context context.Context, e *Entry) error

	// UpdateEntry persists status, started and finished timestamps.
	UpdateEntry(context context.Context, e *Entry) error
	DeleteEntry(context context.Context, id int64) error
}
