// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BookAuthorTable represents the 'core.bookauthor' table
type BookAuthorTable struct {
	Table    string
	BookID   string
	AuthorID string
}

// BookAuthor is the schema definition for core.bookauthor
var BookAuthor = BookAuthorTable{
	Table:    "core.bookauthor",
	BookID:   "bookid",
	AuthorID: "authorid",
}
