// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 generates time-ordered identifiers for request correlation
// and distributed lock ownership.
//
// Version 7 values sort by creation time, so request IDs in the logs line up
// with the order requests arrived.
package uuidv7

import "github.com/google/uuid"

// New returns a UUIDv7 string. When the clock-based generator fails it falls
// back to a random v4 value rather than panicking inside a request.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
