// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import "context"

type Repository interface {
	ListGenres(context context.Context) ([]*Genre, error)
	GetGenre(context context.Context, id int64) (*Genre, error)

	// FindOrCreate returns the genre with the given slug, inserting it with name when absent.
	FindOrCreate(context context.Context, name, slug string) (*Genre, error)
}
