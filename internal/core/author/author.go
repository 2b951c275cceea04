// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"time"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

// Author is a writer linked to one or more books. Imported authors carry their
// OpenLibrary key; the portrait is filled in later by background enrichment.
type Author struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	OpenLibraryKey *string   `json:"open_library_key,omitempty"`
	ImageURL       *string   `json:"image_url"`
	Bio            *string   `json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Input is the part of an author moderators may edit. Nil fields are left
// as they are on update. The OpenLibrary key belongs to the importer and is
// never taken from a request.
type Input struct {
	Name     *string `json:"name"`
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}

// apply copies the non-nil fields of input onto author.
func (input Input) apply(author *Author) {
	if input.Name != nil {
		author.Name = *input.Name
	}
	if input.ImageURL != nil {
		author.ImageURL = input.ImageURL
	}
	if input.Bio != nil {
		author.Bio = input.Bio
	}
}

// Filter holds the parameters for a paginated author search.
type Filter struct {
	Query string // case-insensitive match on name
}

// ErrNotFound is returned when an author id does not exist.
var ErrNotFound = apperr.NotFound("Author")

// Global field names for validation
const (
	FieldName     = "name"
	FieldBio      = "bio"
	FieldImageURL = "image_url"
)
