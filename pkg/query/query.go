// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses multi-valued URL query parameters such as ?genre_id=3,7.
package query

import (
	"strconv"
	"strings"
)

// StringSlice splits a comma-separated value into trimmed, non-empty parts.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// IDs parses a comma-separated list of positive ids. Invalid or duplicate
// entries are dropped; order of first appearance is kept.
func IDs(val string) []int64 {
	var res []int64
	seen := map[int64]bool{}
	for _, v := range StringSlice(val) {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}
