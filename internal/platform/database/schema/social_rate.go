// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialRateTable represents the 'social.rate' table
type SocialRateTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	Score     string
	CreatedAt string
	UpdatedAt string
}

// SocialRate is the schema definition for social.rate
var SocialRate = SocialRateTable{
	Table:     "social.rate",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	Score:     "score",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t SocialRateTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.BookID, t.Score, t.CreatedAt, t.UpdatedAt,
	}
}
