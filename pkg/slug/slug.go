// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns genre names into ASCII URL slugs.
//
// Genres are deduplicated on their slug, so "Science Fiction" and
// "science-fiction" resolve to the same row.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented letters and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}))

// From converts s into a lowercase slug of [a-z0-9] runs joined by single
// hyphens. Apostrophes are dropped ("Children's" becomes "childrens") and
// "&" reads as "and".
func From(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var builder strings.Builder
	builder.Grow(len(folded))

	pendingHyphen := false
	emit := func(word string) {
		if pendingHyphen && builder.Len() > 0 {
			builder.WriteByte('-')
		}
		pendingHyphen = false
		builder.WriteString(word)
	}

	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			emit(string(r))
		case r == '\'' || r == '’':
		case r == '&':
			pendingHyphen = true
			emit("and")
			pendingHyphen = true
		default:
			pendingHyphen = true
		}
	}
	return builder.String()
}
