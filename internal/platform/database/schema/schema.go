// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column the repositories touch.

Queries are assembled with fmt.Sprintf over these descriptors so a column
rename is a one-line change here instead of a grep across SQL strings.
*/
package schema

import "strings"

// List joins column names for a SELECT or INSERT list.
func List(columns ...string) string {
	return strings.Join(columns, ", ")
}

// Qualified prefixes each column with a table alias ("b.id, b.title").
func Qualified(alias string, columns ...string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}
