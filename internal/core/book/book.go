// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book defines the shared bibliographic record of the BlaBlaBook catalogue.

Books are reference data owned by no single user. Most of them enter the
catalogue lazily: the first time someone rates, reviews or shelves a work that
only exists on OpenLibrary, the importer creates the row as [StatusTemporary].
The first successful user action promotes it to [StatusConfirmed]; an abandoned
one lets rollback or the sweeper delete it.

	temporary --(first engagement)--> confirmed   (terminal)
	temporary --(rollback / sweep)--> deleted
*/
package book

import (
	"time"

	"github.com/taibuivan/blablabook/internal/core/author"
	"github.com/taibuivan/blablabook/internal/core/genre"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

// # Domain Enums

// ImportStatus is the lifecycle state of a book row.
type ImportStatus string

const (
	// StatusTemporary marks a lazy import not yet backed by a user action.
	StatusTemporary ImportStatus = "temporary"

	// StatusConfirmed marks a book in active use. It never goes back to temporary.
	StatusConfirmed ImportStatus = "confirmed"
)

// IsValid reports whether s is a recognised [ImportStatus] value.
func (s ImportStatus) IsValid() bool {
	switch s {
	case StatusTemporary, StatusConfirmed:
		return true
	}
	return false
}

// ImportReason records which kind of action pulled a book into the catalogue.
type ImportReason string

const (
	ReasonRate    ImportReason = "rate"
	ReasonReview  ImportReason = "review"
	ReasonLibrary ImportReason = "library"
	ReasonSearch  ImportReason = "search"
)

// IsValid reports whether r is a recognised [ImportReason] value.
func (r ImportReason) IsValid() bool {
	switch r {
	case ReasonRate, ReasonReview, ReasonLibrary, ReasonSearch:
		return true
	}
	return false
}

// # Core Entities

// Book is a catalogue entry, optionally mirrored from an OpenLibrary work.
type Book struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	PublicationYear *int    `json:"publication_year"`
	PageCount       *int    `json:"page_count"`
	CoverURL        *string `json:"cover_url"`

	// OpenLibraryKey is unique when present ("/works/OL45804W").
	OpenLibraryKey *string `json:"open_library_key"`

	// # Import Lifecycle
	ImportStatus ImportStatus  `json:"import_status"`
	ImportedBy   *int64        `json:"imported_by,omitempty"`
	ImportedAt   *time.Time    `json:"imported_at,omitempty"`
	ImportReason *ImportReason `json:"import_reason,omitempty"`

	Authors []author.Author `json:"authors"`
	Genres  []genre.Genre   `json:"genres"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTemporary reports whether the book is an unconfirmed import.
func (b *Book) IsTemporary() bool {
	return b.ImportStatus == StatusTemporary
}

// Filter holds the parameters for a paginated catalogue search.
type Filter struct {
	Query    string  // ILIKE against title
	GenreIDs []int64 // any of
	AuthorID *int64
}

// ErrNotFound is returned when a book id or key does not exist locally.
var ErrNotFound = apperr.NotFound("Book")
