// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/blablabook/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=-2&limit=500", 1, 100, 0},
		{"?page=abc&limit=0", 1, 20, 0},
		{"?page=2&limit=100", 2, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/books"+tt.query, nil))
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset())
		})
	}
}

func TestMeta(t *testing.T) {
	meta := pagination.Params{Page: 2, Limit: 20}.Meta(41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 41, meta.Total)
	assert.True(t, meta.HasNext)

	last := pagination.Params{Page: 3, Limit: 20}.Meta(41)
	assert.False(t, last.HasNext)

	assert.Equal(t, 0, pagination.NewMeta(1, 0, 10).TotalPages)
	assert.False(t, pagination.NewMeta(1, 20, 0).HasNext)
}
