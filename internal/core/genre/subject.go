// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/blablabook/pkg/slug"
)

// # Subject Prioritization
//
// OpenLibrary subjects are free text ("Fantasy fiction", "Accessible book",
// "Middle Earth (Imaginary place)"). Only a handful are worth turning into
// genres, so each subject is scored against curated keyword tiers and the
// best ones are kept.

// tier is one keyword category with its additive weight.
type tier struct {
	weight   int
	keywords []string
}

// tiers are ordered by strictly decreasing weight.
var tiers = []tier{
	{weight: 100, keywords: []string{ // literary genres
		"fantasy", "science fiction", "sci-fi", "mystery", "thriller", "romance", "horror",
		"detective", "crime", "adventure", "historical fiction", "dystopia", "utopia", "poetry",
		"drama", "satire", "memoir", "biography", "autobiography", "graphic novel", "comic",
		"short stories", "epic", "gothic", "western", "fairy tale", "mythology", "space opera",
		"cyberpunk", "steampunk", "fable", "essay", "polar", "roman",
	}},
	{weight: 80, keywords: []string{ // target audience
		"juvenile", "children", "young adult", "teen", "adolescen", "kids", "picture book", "jeunesse",
	}},
	{weight: 60, keywords: []string{ // major themes
		"love", "war", "friendship", "family", "death", "magic", "politic", "religio", "identity",
		"survival", "revenge", "power", "coming of age", "good and evil", "courage", "betrayal",
		"slavery", "racism", "feminism", "philosophy",
	}},
	{weight: 40, keywords: []string{ // style
		"humor", "humour", "psychological", "epistolary", "allegor", "tragedy", "comedy",
		"suspense", "noir", "realism", "surreal", "absurd",
	}},
	{weight: 20, keywords: []string{ // narrative elements
		"dragon", "wizard", "elves", "vampire", "robot", "alien", "time travel", "quest", "hero",
		"monster", "pirate", "spy", "spies", "orphan", "ghost", "witch", "zombie",
	}},
	{weight: 10, keywords: []string{ // places and eras
		"england", "france", "america", "london", "paris", "new york", "middle earth", "medieval",
		"victorian", "century", "world war", "ancient", "future", "imaginary place",
	}},
}

// genericTerms mark administrative or catalogue noise.
var genericTerms = []string{
	"fiction", "literature", "series", "general", "books", "reading", "classic", "collection",
	"accessible book", "protected daisy", "in library", "open library", "nyt:", "large type",
	"translations", "history and criticism", "juvenile literature", "long now",
}

// blacklist holds subjects that are never worth a genre on their own.
var blacklist = map[string]struct{}{
	"fiction": {}, "non-fiction": {}, "literature": {}, "books": {}, "reading": {}, "classic": {},
	"general": {}, "miscellaneous": {}, "other": {}, "various": {}, "collection": {},
	"anthology": {}, "series": {},
}

const (
	genericPenalty = 50
	shortBonus     = 10
	longPenalty    = 20

	shortMaxChars = 20
	shortMaxWords = 3
	longMinChars  = 40

	minGenreChars = 3
	maxGenreChars = 50
)

// Casers are stateful, so each call builds its own.
func toLower(s string) string { return cases.Lower(language.Und).String(s) }
func toUpper(s string) string { return cases.Upper(language.Und).String(s) }

// Score rates a subject. Higher is more useful as a genre; the floor is zero.
func Score(subject string) int {
	text := toLower(strings.TrimSpace(subject))
	if text == "" {
		return 0
	}

	score := 0
	for _, t := range tiers {
		if containsAny(text, t.keywords) {
			score += t.weight
		}
	}

	if containsAny(text, genericTerms) {
		score -= genericPenalty
	}

	chars := utf8.RuneCountInString(text)
	switch {
	case chars <= shortMaxChars && len(strings.Fields(text)) <= shortMaxWords:
		score += shortBonus
	case chars > longMinChars:
		score -= longPenalty
	}

	return max(score, 0)
}

// Prioritize returns subjects ordered by descending [Score]. Ties keep source
// order and case-insensitive duplicates are dropped.
func Prioritize(subjects []string) []string {
	type scored struct {
		subject string
		score   int
	}

	seen := make(map[string]struct{}, len(subjects))
	ranked := make([]scored, 0, len(subjects))
	for _, subject := range subjects {
		key := toLower(strings.TrimSpace(subject))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ranked = append(ranked, scored{subject: subject, score: Score(subject)})
	}

	slices.SortStableFunc(ranked, func(a, b scored) int { return b.score - a.score })

	result := make([]string, len(ranked))
	for i, r := range ranked {
		result[i] = r.subject
	}
	return result
}

// Normalize turns a subject into a genre name: trimmed, 3 to 50 characters,
// not blacklisted, first letter upper-cased and the rest lower-cased.
func Normalize(subject string) (string, bool) {
	text := strings.TrimSpace(subject)

	chars := utf8.RuneCountInString(text)
	if chars < minGenreChars || chars > maxGenreChars {
		return "", false
	}

	lowered := toLower(text)
	if _, banned := blacklist[lowered]; banned {
		return "", false
	}

	first, size := utf8.DecodeRuneInString(lowered)
	return toUpper(string(first)) + lowered[size:], true
}

// Candidate is a normalized genre name with its deduplication slug.
type Candidate struct {
	Name string
	Slug string
}

// SelectGenres keeps the limit best subjects, normalizes them and drops
// duplicates. Subjects whose name has no slug form are skipped.
func SelectGenres(subjects []string, limit int) []Candidate {
	prioritized := Prioritize(subjects)
	if limit >= 0 && len(prioritized) > limit {
		prioritized = prioritized[:limit]
	}

	seen := make(map[string]struct{}, len(prioritized))
	candidates := make([]Candidate, 0, len(prioritized))
	for _, subject := range prioritized {
		name, ok := Normalize(subject)
		if !ok {
			continue
		}

		key := slug.From(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		candidates = append(candidates, Candidate{Name: name, Slug: key})
	}
	return candidates
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
