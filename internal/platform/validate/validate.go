// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Services run their checks before touching storage or the OpenLibrary importer,
// so an invalid payload never triggers a lazy import.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field errors through a chain of rules and reports them
// together from [Validator.Err]. One instance per operation; not safe for
// concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails on an empty or all-whitespace value.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) == "", field, "This field is required")
}

// MaxLen counts runes, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(utf8.RuneCountInString(value) > max, field, fmt.Sprintf("Maximum %d characters", max))
}

// MaxBytes limits the encoded size, for sinks that measure bytes.
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	return v.check(len(value) > max, field, fmt.Sprintf("Maximum %d bytes", max))
}

// Length bounds the rune count to [min, max].
func (v *Validator) Length(field, value string, min, max int) *Validator {
	n := utf8.RuneCountInString(value)
	return v.check(n < min || n > max, field, fmt.Sprintf("Must be between %d and %d characters", min, max))
}

// Range is inclusive on both ends.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(value < min || value > max, field, fmt.Sprintf("Must be between %d and %d", min, max))
}

// Email accepts a bare address only; "Name <addr>" forms are rejected.
func (v *Validator) Email(field, value string) *Validator {
	addr, err := mail.ParseAddress(value)
	return v.check(err != nil || addr.Address != value, field, "Must be a valid email address")
}

// URL requires an absolute http or https URL.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	invalid := err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https")
	return v.check(invalid, field, "Must be a valid http(s) URL")
}

func (v *Validator) Positive(field string, value int64) *Validator {
	return v.check(value <= 0, field, "Must be a positive integer")
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(!slices.Contains(allowed, value), field, "Must be one of: "+strings.Join(allowed, ", "))
}

// Err is nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) check(failed bool, field, message string) *Validator {
	if failed {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// RequiredError builds a single-field validation error outside a chain.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}
