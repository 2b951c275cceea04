// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BookGenreTable represents the 'core.bookgenre' table
type BookGenreTable struct {
	Table   string
	BookID  string
	GenreID string
}

// BookGenre is the schema definition for core.bookgenre
var BookGenre = BookGenreTable{
	Table:   "core.bookgenre",
	BookID:  "bookid",
	GenreID: "genreid",
}
