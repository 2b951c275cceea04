// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/pkg/pointer"
)

func TestNonBlank(t *testing.T) {
	assert.Nil(t, pointer.NonBlank(""))
	assert.Nil(t, pointer.NonBlank(" \n\t "))

	got := pointer.NonBlank("  A wizard is never late.  ")
	require.NotNil(t, got)
	assert.Equal(t, "A wizard is never late.", *got)
}

func TestTo(t *testing.T) {
	assert.Equal(t, 1954, *pointer.To(1954))
}
