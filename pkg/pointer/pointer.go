// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds the optional fields used across book and author rows.
package pointer

import "strings"

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// NonBlank trims s and returns nil when nothing is left, so empty upstream
// strings are stored as NULL instead of "".
func NonBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
