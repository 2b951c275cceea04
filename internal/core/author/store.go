// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import "context"

type Repository interface {
	ListAuthors(context context.Context, f Filter, limit, offset int) ([]*Author, int, error)
	GetAuthor(context context.Context, id int64) (*Author, error)
	CreateAuthor(context context.Context, a *Author) error
	UpdateAuthor(context context.Context, a *Author) error
	DeleteAuthor(context context.Context, id int64) error

	// FindOrCreateByOpenLibraryKey returns the author with key, inserting a stub named name when absent.
	FindOrCreateByOpenLibraryKey(context context.Context, key, name string) (*Author, error)

	// ApplyEnrichment fills name, portrait and bio from the external source.
	// Nil or empty values leave the stored column untouched.
	ApplyEnrichment(context context.Context, id int64, name string, imageURL, bio *string) error
}
