// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library manages user shelves and the reading-list entries they hold.

A library belongs to one user. Each entry places a book in a library with a
reading status; the status drives the started and finished timestamps:

	to_read    clears both
	reading    starts the clock if needed, clears finished
	read       finishes now, starts the clock if needed
	abandoned  finishes now
	owned      leaves both untouched
*/
package library

import (
	"time"

	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

// # Domain Enums

type ReadingStatus string

const (
	StatusToRead    ReadingStatus = "to_read"
	StatusReading   ReadingStatus = "reading"
	StatusRead      ReadingStatus = "read"
	StatusAbandoned ReadingStatus = "abandoned"
	StatusOwned     ReadingStatus = "owned"
)

// Statuses lists every [ReadingStatus] in display order.
var Statuses = []ReadingStatus{StatusToRead, StatusReading, StatusRead, StatusAbandoned, StatusOwned}

func (s ReadingStatus) IsValid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead, StatusAbandoned, StatusOwned:
		return true
	}
	return false
}

// # Core Entities

type Library struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"id_user"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CanRead reports whether userID may see the library.
func (l *Library) CanRead(userID int64, isAdmin bool) bool {
	return l.IsPublic || l.UserID == userID || isAdmin
}

// CanWrite reports whether userID may change the library or its entries.
func (l *Library) CanWrite(userID int64, isAdmin bool) bool {
	return l.UserID == userID || isAdmin
}

// Entry is one book on a library's reading list.
type Entry struct {
	ID         int64         `json:"id"`
	LibraryID  int64         `json:"id_library"`
	BookID     int64         `json:"id_book"`
	Status     ReadingStatus `json:"reading_status"`
	StartedAt  *time.Time    `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ApplyStatus moves entry to status and adjusts its timestamps.
func ApplyStatus(entry *Entry, status ReadingStatus, now time.Time) {
	entry.Status = status

	switch status {
	case StatusToRead:
		entry.StartedAt = nil
		entry.FinishedAt = nil
	case StatusReading:
		if entry.StartedAt == nil {
			entry.StartedAt = &now
		}
		entry.FinishedAt = nil
	case StatusRead:
		if entry.StartedAt == nil {
			entry.StartedAt = &now
		}
		entry.FinishedAt = &now
	case StatusAbandoned:
		entry.FinishedAt = &now
	case StatusOwned:
	}
}

// # Payloads

type LibraryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"is_public"`
}

// EntryInput adds a book to a library. Status defaults to to_read.
type EntryInput struct {
	importer.BookRef
	Status ReadingStatus `json:"reading_status"`
}

type StatusInput struct {
	Status ReadingStatus `json:"reading_status"`
}

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldStatus      = "reading_status"
)

var (
	ErrNotFound      = apperr.NotFound("Library")
	ErrEntryNotFound = apperr.NotFound("Reading list entry")
	ErrDuplicate     = apperr.Conflict("This book is already in the library")
)
