// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreAuthorTable represents the 'core.author' table
type CoreAuthorTable struct {
	Table          string
	ID             string
	Name           string
	OpenLibraryKey string
	ImageURL       string
	Bio            string
	CreatedAt      string
	UpdatedAt      string
}

// CoreAuthor is the schema definition for core.author
var CoreAuthor = CoreAuthorTable{
	Table:          "core.author",
	ID:             "id",
	Name:           "name",
	OpenLibraryKey: "openlibrarykey",
	ImageURL:       "imageurl",
	Bio:            "bio",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t CoreAuthorTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.OpenLibraryKey, t.ImageURL, t.Bio, t.CreatedAt, t.UpdatedAt,
	}
}
