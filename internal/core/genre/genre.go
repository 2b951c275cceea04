// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"time"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

// Genre is a shared classification attached to books. Names are unique and
// deduplicated on their slug.
type Genre struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// ErrNotFound is returned when a genre id does not exist.
var ErrNotFound = apperr.NotFound("Genre")
