// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rate

import "context"

type Repository interface {
	ListByBook(context context.Context, bookID int64, limit, offset int) ([]*Rate, int, error)
	ListByUser(context context.Context, userID int64, limit, offset int) ([]*Rate, int, error)
	GetRate(context context.Context, id int64) (*Rate, error)

	// FindByUserAndBook returns ErrNotFound when the user has not rated the book.
	FindByUserAndBook(context context.Context, userID, bookID int64) (*Rate, error)

	CreateRate(context context.Context, r *Rate) error
	UpdateScore(context context.Context, id int64, score int) error
	DeleteRate(context context.Context, id int64) error
	Summarize(context context.Context, bookID int64) (*Summary, error)
}
