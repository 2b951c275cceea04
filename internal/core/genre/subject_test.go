// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/taibuivan/blablabook/internal/core/genre"
)

func TestScore(t *testing.T) {
	tests := []struct {
		subject string
		want    int
	}{
		{"Fantasy", 110},
		{"Fantasy fiction", 60},
		{"Science fiction", 60},
		{"Juvenile fiction", 40},
		{"Love", 70},
		{"Dragons", 30},
		{"London (England)", 20},
		{"Accessible book", 0},
		{"Protected DAISY", 0},
		{"   ", 0},
		{"Middle Earth (Imaginary place) -- History and criticism today", 0},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.want, genre.Score(tt.subject))
		})
	}
}

func TestScore_TiersStrictlyDecrease(t *testing.T) {
	ordered := []string{"Mystery", "Young adult", "Friendship", "Humor", "Pirates", "Paris"}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, genre.Score(ordered[i-1]), genre.Score(ordered[i]), "%s vs %s", ordered[i-1], ordered[i])
	}
}

func TestPrioritize(t *testing.T) {
	got := genre.Prioritize([]string{"Accessible book", "Dragons", "fantasy", "Fantasy", "Love", ""})
	assert.Equal(t, []string{"fantasy", "Love", "Dragons", "Accessible book"}, got)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		subject string
		want    string
		ok      bool
	}{
		{"space opera", "Space opera", true},
		{"  SCIENCE FICTION  ", "Science fiction", true},
		{"élévation", "Élévation", true},
		{"fiction", "", false},
		{"Fiction", "", false},
		{"Non-Fiction", "", false},
		{"ab", "", false},
		{strings.Repeat("x", 51), "", false},
		{strings.Repeat("y", 50), "Y" + strings.Repeat("y", 49), true},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got, ok := genre.Normalize(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectGenres_FiltersNoise(t *testing.T) {
	long := strings.Repeat("a", 60)
	got := genre.SelectGenres([]string{"fiction", "ab", long, "space opera", "Space Opera"}, 15)

	require.Len(t, got, 1)
	assert.Equal(t, genre.Candidate{Name: "Space opera", Slug: "space-opera"}, got[0])
}

func TestSelectGenres_CapsAtLimit(t *testing.T) {
	subjects := make([]string, 40)
	for i := range subjects {
		subjects[i] = fmt.Sprintf("Topic number %02d", i)
	}

	got := genre.SelectGenres(subjects, 15)
	assert.Len(t, got, 15)
}

func TestSelectGenres_NoSubjects(t *testing.T) {
	assert.Empty(t, genre.SelectGenres(nil, 15))
	assert.Empty(t, genre.SelectGenres([]string{"fiction", "books", "xy"}, 15))
}

// # Properties

func subjectGen() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.SampledFrom([]string{
			"Fantasy", "fiction", "Science fiction", "Young adult fiction", "Love stories",
			"Dragons", "Accessible book", "London (England)", "Humor", "space opera",
		}),
		rapid.StringMatching(`[A-Za-z ]{0,70}`),
	)
}

func TestProperty_ScoreIsNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		subject := subjectGen().Draw(t, "subject")
		if genre.Score(subject) < 0 {
			t.Fatalf("negative score for %q", subject)
		}
	})
}

func TestProperty_PrioritizeIsSortedAndDeduplicated(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		subjects := rapid.SliceOf(subjectGen()).Draw(t, "subjects")
		got := genre.Prioritize(subjects)

		seen := map[string]bool{}
		for i, subject := range got {
			key := strings.ToLower(strings.TrimSpace(subject))
			if seen[key] {
				t.Fatalf("duplicate %q", subject)
			}
			seen[key] = true

			if i > 0 && genre.Score(got[i-1]) < genre.Score(subject) {
				t.Fatalf("not sorted at %d: %q before %q", i, got[i-1], subject)
			}
		}
	})
}

func TestProperty_SelectGenresRespectsBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		subjects := rapid.SliceOf(subjectGen()).Draw(t, "subjects")
		limit := rapid.IntRange(0, 20).Draw(t, "limit")

		got := genre.SelectGenres(subjects, limit)
		if len(got) > limit {
			t.Fatalf("got %d genres, limit %d", len(got), limit)
		}

		slugs := map[string]bool{}
		for _, candidate := range got {
			chars := utf8.RuneCountInString(candidate.Name)
			if chars < 3 || chars > 50 {
				t.Fatalf("name %q out of bounds", candidate.Name)
			}
			if strings.EqualFold(candidate.Name, "fiction") {
				t.Fatalf("blacklisted name %q survived", candidate.Name)
			}
			if slugs[candidate.Slug] {
				t.Fatalf("duplicate slug %q", candidate.Slug)
			}
			slugs[candidate.Slug] = true
		}
	})
}
