// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LibraryShelfTable represents the 'library.library' table
type LibraryShelfTable struct {
	Table       string
	ID          string
	UserID      string
	Name        string
	Description string
	IsPublic    string
	CreatedAt   string
	UpdatedAt   string
}

// LibraryShelf is the schema definition for library.library
var LibraryShelf = LibraryShelfTable{
	Table:       "library.library",
	ID:          "id",
	UserID:      "userid",
	Name:        "name",
	Description: "description",
	IsPublic:    "ispublic",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t LibraryShelfTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Name, t.Description, t.IsPublic, t.CreatedAt, t.UpdatedAt,
	}
}
