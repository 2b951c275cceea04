// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LibraryReadingListTable represents the 'library.readinglist' table
type LibraryReadingListTable struct {
	Table         string
	ID            string
	LibraryID     string
	BookID        string
	ReadingStatus string
	StartedAt     string
	FinishedAt    string
	CreatedAt     string
	UpdatedAt     string
}

// LibraryReadingList is the schema definition for library.readinglist
var LibraryReadingList = LibraryReadingListTable{
	Table:         "library.readinglist",
	ID:            "id",
	LibraryID:     "libraryid",
	BookID:        "bookid",
	ReadingStatus: "readingstatus",
	StartedAt:     "startedat",
	FinishedAt:    "finishedat",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t LibraryReadingListTable) Columns() []string {
	return []string{
		t.ID, t.LibraryID, t.BookID, t.ReadingStatus, t.StartedAt, t.FinishedAt, t.CreatedAt, t.UpdatedAt,
	}
}
