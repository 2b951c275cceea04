// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/blablabook/pkg/query"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"fantasy", "sci-fi"}, query.StringSlice(" fantasy, ,sci-fi "))
}

func TestIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int64
	}{
		{"Empty", "", nil},
		{"Single", "7", []int64{7}},
		{"Many", "3, 7,12", []int64{3, 7, 12}},
		{"DropsInvalid", "3,abc,-1,0,9", []int64{3, 9}},
		{"DropsDuplicates", "4,4,2,4", []int64{4, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.IDs(tt.raw))
		})
	}
}
