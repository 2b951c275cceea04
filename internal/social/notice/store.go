// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notice

import "context"

type Repository interface {
	// ListByBook returns public notices plus, when viewerID is positive, the viewer's private ones.
	ListByBook(context context.Context, bookID, viewerID int64, limit, offset int) ([]*Notice, int, error)
	ListByUser(context context.Context, userID int64, limit, offset int) ([]*Notice, int, error)
	GetNotice(context context.Context, id int64) (*Notice, error)
	CreateNotice(context context.Context, n *Notice) error
	UpdateNotice(context context.Context, n *Notice) error
	DeleteNotice(context context.Context, id int64) error
}
