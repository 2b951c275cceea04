// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialNoticeTable represents the 'social.notice' table
type SocialNoticeTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	Title     string
	Content   string
	IsSpoiler string
	IsPublic  string
	CreatedAt string
	UpdatedAt string
}

// SocialNotice is the schema definition for social.notice
var SocialNotice = SocialNoticeTable{
	Table:     "social.notice",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	Title:     "title",
	Content:   "content",
	IsSpoiler: "isspoiler",
	IsPublic:  "ispublic",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t SocialNoticeTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.BookID, t.Title, t.Content, t.IsSpoiler, t.IsPublic, t.CreatedAt, t.UpdatedAt,
	}
}
