// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreBookTable represents the 'core.book' table
type CoreBookTable struct {
	Table           string
	ID              string
	Title           string
	Description     string
	PublicationYear string
	PageCount       string
	CoverURL        string
	OpenLibraryKey  string
	ImportStatus    string
	ImportedBy      string
	ImportedAt      string
	ImportReason    string
	CreatedAt       string
	UpdatedAt       string
}

// CoreBook is the schema definition for core.book
var CoreBook = CoreBookTable{
	Table:           "core.book",
	ID:              "id",
	Title:           "title",
	Description:     "description",
	PublicationYear: "publicationyear",
	PageCount:       "pagecount",
	CoverURL:        "coverurl",
	OpenLibraryKey:  "openlibrarykey",
	ImportStatus:    "importstatus",
	ImportedBy:      "importedby",
	ImportedAt:      "importedat",
	ImportReason:    "importreason",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns all standard column names
func (t CoreBookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.PublicationYear, t.PageCount, t.CoverURL, t.OpenLibraryKey, t.ImportStatus, t.ImportedBy, t.ImportedAt, t.ImportReason, t.CreatedAt, t.UpdatedAt,
	}
}
