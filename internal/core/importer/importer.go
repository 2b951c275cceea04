// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package importer mirrors OpenLibrary works into the local catalogue on demand.

A user action that references a book by its OpenLibrary key runs in two phases:

 1. [Engine.PrepareBookForAction] returns the local copy, importing it as a
    temporary book when it does not exist yet.
 2. [Engine.CommitAction] performs the caller's write and confirms the book in
    the same transaction. When the caller gives up between the two phases,
    [Engine.RollbackAction] deletes the unused temporary import.

Concurrent imports of the same key are serialized by a [Guard]; the sweeper
removes temporary imports that were never committed or rolled back.
*/
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/blablabook/internal/core/book"
	"github.com/taibuivan/blablabook/internal/platform/openlibrary"
)

// # Actions

// ActionType names the user action that triggered an import.
type ActionType string

const (
	ActionAddRate          ActionType = "add_rate"
	ActionUpdateRate       ActionType = "update_rate"
	ActionAddNote          ActionType = "add_note"
	ActionAddReview        ActionType = "add_review"
	ActionUpdateReview     ActionType = "update_review"
	ActionAddToLibrary     ActionType = "add_to_library"
	ActionAddToReadingList ActionType = "add_to_reading_list"
)

// ReasonFor maps an action to the import reason stored on the book.
// Unknown actions are recorded as a search.
func ReasonFor(action ActionType) book.ImportReason {
	switch action {
	case ActionAddRate, ActionUpdateRate:
		return book.ReasonRate
	case ActionAddNote, ActionAddReview, ActionUpdateReview:
		return book.ReasonReview
	case ActionAddToLibrary, ActionAddToReadingList:
		return book.ReasonLibrary
	default:
		return book.ReasonSearch
	}
}

// # Results

// Preparation is the outcome of phase one.
type Preparation struct {
	Book *book.Book `json:"book"`

	// WasImported is true only when this call created the row.
	WasImported bool `json:"was_imported"`

	// CanRollback mirrors WasImported: only the importing caller may undo it.
	CanRollback bool `json:"can_rollback"`
}

// BookRef is how request payloads point at a book: by local id or by OpenLibrary key.
type BookRef struct {
	BookID         *int64  `json:"id_book,omitempty"`
	OpenLibraryKey *string `json:"open_library_key,omitempty"`
}

// Resolution is a [BookRef] turned into a local book id.
type Resolution struct {
	BookID int64

	// WasImported is true when this resolution created the book.
	WasImported bool

	// Temporary is true while the book still awaits its first engagement.
	Temporary bool
}

// # Errors

// ErrImportFailed matches every [ImportFailedError].
var ErrImportFailed = errors.New("openlibrary import failed")

// errNoData is the cause used when OpenLibrary answers with an empty work.
var errNoData = errors.New("work has no usable data")

// ImportFailedError reports that a work could not be fetched from OpenLibrary.
// No local state is left behind when it is returned.
type ImportFailedError struct {
	Key   string
	Cause error
}

func (e *ImportFailedError) Error() string {
	return fmt.Sprintf("OPENLIB_IMPORT_FAILED: %s: %v", e.Key, e.Cause)
}

func (e *ImportFailedError) Unwrap() []error {
	return []error{ErrImportFailed, e.Cause}
}

// # Collaborators

// Source is the external catalogue. [*openlibrary.Client] implements it.
type Source interface {
	GetWork(ctx context.Context, key string) (*openlibrary.Work, error)
	GetAuthor(ctx context.Context, key string) (*openlibrary.Author, error)
	SearchWorks(ctx context.Context, query string, limit int) (*openlibrary.SearchResult, error)
	CoverURL(coverID int) string
	AuthorPhotoURL(photoID int) string
}

// Transactor runs fn inside one database transaction. [*postgres.TxManager] implements it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
