// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/blablabook/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"Science Fiction":         "science-fiction",
		"science-fiction":         "science-fiction",
		"Littérature française":   "litterature-francaise",
		"  Young adult -- fun  ":  "young-adult-fun",
		"1984":                    "1984",
		"Children's stories":      "childrens-stories",
		"Children\u2019s stories": "childrens-stories",
		"Sword & sorcery":         "sword-and-sorcery",
		"Fantasy&Magic":           "fantasy-and-magic",
		"Ελληνικά":                "",
		"!!!":                     "",
	}

	for input, want := range tests {
		assert.Equal(t, want, slug.From(input), input)
	}
}
