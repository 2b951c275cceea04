// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreGenreTable represents the 'core.genre' table
type CoreGenreTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = CoreGenreTable{
	Table:     "core.genre",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t CoreGenreTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.CreatedAt,
	}
}
