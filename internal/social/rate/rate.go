// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package rate stores the 1 to 5 star score a user gives a book.
// A user rates a given book at most once.
package rate

import (
	"time"

	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

const (
	MinScore = 1
	MaxScore = 5
)

const (
	FieldScore = "score"
	FieldBook  = "id_book"
)

type Rate struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"id_user"`
	BookID    int64     `json:"id_book"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary aggregates every score of one book.
type Summary struct {
	BookID  int64   `json:"id_book"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// CreateInput is the payload of a new rating. The book is referenced by local
// id or OpenLibrary key.
type CreateInput struct {
	importer.BookRef
	Score int `json:"score"`
}

type UpdateInput struct {
	Score int `json:"score"`
}

var (
	ErrNotFound  = apperr.NotFound("Rate")
	ErrDuplicate = apperr.Conflict("You have already rated this book")
)
