// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package openlibrary

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	// workKeyPattern accepts "/works/<id>" once normalized.
	workKeyPattern = regexp.MustCompile(`^/works/[A-Za-z0-9]+$`)
	// yearPattern picks the first four-digit year out of a free-form date.
	yearPattern = regexp.MustCompile(`\b(\d{4})\b`)
)

// # Response Shapes

// Text is a field OpenLibrary sends either as a bare string or as
// {"type": "/type/text", "value": "..."}.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = Text(plain)
		return nil
	}

	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	*t = Text(typed.Value)
	return nil
}

// KeyRef is a bare {"key": "..."} reference.
type KeyRef struct {
	Key string `json:"key"`
}

// WorkAuthor is one entry of a work's "authors" array.
type WorkAuthor struct {
	Author KeyRef `json:"author"`
}

// Work matches works/{key}.json.
type Work struct {
	Key              string       `json:"key"`
	Title            string       `json:"title"`
	Description      Text         `json:"description"`
	Covers           []int        `json:"covers"`
	Authors          []WorkAuthor `json:"authors"`
	FirstPublishDate string       `json:"first_publish_date"`
	Subjects         []string     `json:"subjects"`
}

// CoverID returns the first usable cover id. OpenLibrary pads some lists with -1.
func (w *Work) CoverID() (int, bool) {
	for _, id := range w.Covers {
		if id > 0 {
			return id, true
		}
	}
	return 0, false
}

// PublicationYear extracts the year from FirstPublishDate ("1954", "July 29, 1954", ...).
func (w *Work) PublicationYear() (int, bool) {
	match := yearPattern.FindStringSubmatch(w.FirstPublishDate)
	if match == nil {
		return 0, false
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// AuthorKeys lists the non-empty author keys of the work, in source order.
func (w *Work) AuthorKeys() []string {
	keys := make([]string, 0, len(w.Authors))
	for _, ref := range w.Authors {
		if ref.Author.Key != "" {
			keys = append(keys, ref.Author.Key)
		}
	}
	return keys
}

// Author matches authors/{key}.json.
type Author struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Bio    Text   `json:"bio"`
	Photos []int  `json:"photos"`
}

// PhotoID returns the first usable portrait id.
func (a *Author) PhotoID() (int, bool) {
	for _, id := range a.Photos {
		if id > 0 {
			return id, true
		}
	}
	return 0, false
}

// SearchResult matches search.json.
type SearchResult struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// SearchDoc is one hit of search.json.
type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	AuthorKeys       []string `json:"author_key"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int      `json:"cover_i"`
}

// # Keys

// WorkKey normalizes "OL45804W", "works/OL45804W" and "/works/OL45804W" to the
// canonical "/works/OL45804W". The second result is false for anything else.
func WorkKey(raw string) (string, bool) {
	key := strings.TrimSpace(raw)
	key = strings.TrimSuffix(key, ".json")
	key = strings.TrimPrefix(key, "/")
	key = strings.TrimPrefix(key, "works/")
	if key == "" {
		return "", false
	}

	key = "/works/" + key
	return key, workKeyPattern.MatchString(key)
}

// AuthorKey normalizes an author reference to "/authors/<id>".
func AuthorKey(raw string) string {
	key := strings.TrimPrefix(strings.TrimSpace(raw), "/")
	key = strings.TrimPrefix(key, "authors/")
	return "/authors/" + key
}
