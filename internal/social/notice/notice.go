// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package notice stores written reviews. A user may post several notices on
// the same book; private ones are only listed to their author.
package notice

import (
	"time"

	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

const (
	FieldTitle   = "title"
	FieldContent = "content"

	maxTitleLength   = 255
	maxContentLength = 10000
)

type Notice struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"id_user"`
	BookID    int64     `json:"id_book"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsSpoiler bool      `json:"is_spoiler"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput is the payload of a new notice. IsPublic defaults to true.
type CreateInput struct {
	importer.BookRef
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsSpoiler bool   `json:"is_spoiler"`
	IsPublic  *bool  `json:"is_public"`
}

// UpdateInput patches a notice; nil fields are left untouched.
type UpdateInput struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	IsSpoiler *bool   `json:"is_spoiler"`
	IsPublic  *bool   `json:"is_public"`
}

var ErrNotFound = apperr.NotFound("Notice")
