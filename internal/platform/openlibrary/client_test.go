// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package openlibrary_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/platform/openlibrary"
)

func newTestClient(t *testing.T, handler http.Handler, retries int) *openlibrary.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return openlibrary.NewClient(openlibrary.Config{
		BaseURL:           server.URL,
		CoversURL:         "https://covers.test",
		UserAgent:         "BlaBlaBook-Test/1.0",
		Timeout:           2 * time.Second,
		MaxRetries:        retries,
		RequestsPerSecond: 1000,
		RetryInterval:     time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetWork_DecodesBothDescriptionShapes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/works/OL1W.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BlaBlaBook-Test/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{
			"key": "/works/OL1W",
			"title": "The Fellowship of the Ring",
			"description": {"type": "/type/text", "value": "One ring to rule them all."},
			"covers": [-1, 14625765],
			"authors": [{"author": {"key": "/authors/OL26320A"}}, {"author": {"key": ""}}],
			"first_publish_date": "July 29, 1954",
			"subjects": ["Fantasy fiction", "Middle Earth"]
		}`))
	})
	mux.HandleFunc("/works/OL2W.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"key": "/works/OL2W", "title": "Dune", "description": "Spice."}`))
	})

	client := newTestClient(t, mux, 0)

	work, err := client.GetWork(context.Background(), "OL1W")
	require.NoError(t, err)
	assert.Equal(t, "The Fellowship of the Ring", work.Title)
	assert.Equal(t, openlibrary.Text("One ring to rule them all."), work.Description)
	assert.Equal(t, []string{"/authors/OL26320A"}, work.AuthorKeys())

	coverID, ok := work.CoverID()
	require.True(t, ok)
	assert.Equal(t, "https://covers.test/b/id/14625765-L.jpg", client.CoverURL(coverID))

	year, ok := work.PublicationYear()
	require.True(t, ok)
	assert.Equal(t, 1954, year)

	work, err = client.GetWork(context.Background(), "/works/OL2W")
	require.NoError(t, err)
	assert.Equal(t, openlibrary.Text("Spice."), work.Description)
	_, ok = work.CoverID()
	assert.False(t, ok)
}

func TestGetWork_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}), 3)

	_, err := client.GetWork(context.Background(), "/works/OL404W")
	require.Error(t, err)
	assert.True(t, errors.Is(err, openlibrary.ErrNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetWork_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"key": "/works/OL3W", "title": "Eventually"}`))
	}), 2)

	work, err := client.GetWork(context.Background(), "OL3W")
	require.NoError(t, err)
	assert.Equal(t, "Eventually", work.Title)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetWork_GivesUpAfterRetryBudget(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}), 1)

	_, err := client.GetWork(context.Background(), "OL5W")
	require.Error(t, err)

	var statusError *openlibrary.StatusError
	require.True(t, errors.As(err, &statusError))
	assert.Equal(t, http.StatusServiceUnavailable, statusError.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetWork_RejectsMalformedKey(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), 0)

	_, err := client.GetWork(context.Background(), "/works/../admin")
	assert.Error(t, err)

	_, err = client.GetWork(context.Background(), "   ")
	assert.Error(t, err)
}

func TestGetAuthor(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authors/OL26320A.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"key": "/authors/OL26320A", "name": "J.R.R. Tolkien", "bio": "Philologist.", "photos": [6155606]}`))
	}), 0)

	author, err := client.GetAuthor(context.Background(), "OL26320A")
	require.NoError(t, err)
	assert.Equal(t, "J.R.R. Tolkien", author.Name)
	assert.Equal(t, openlibrary.Text("Philologist."), author.Bio)

	photoID, ok := author.PhotoID()
	require.True(t, ok)
	assert.Equal(t, "https://covers.test/a/id/6155606-M.jpg", client.AuthorPhotoURL(photoID))
}

func TestSearchWorks(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "dune herbert", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"numFound": 1,
			"docs": []map[string]any{{
				"key": "/works/OL893415W", "title": "Dune", "author_name": []string{"Frank Herbert"},
				"first_publish_year": 1965, "cover_i": 11481354,
			}},
		})
	}), 0)

	result, err := client.SearchWorks(context.Background(), "dune herbert", 5)
	require.NoError(t, err)
	require.Len(t, result.Docs, 1)
	assert.Equal(t, "Dune", result.Docs[0].Title)
	assert.Equal(t, 1965, result.Docs[0].FirstPublishYear)
}

func TestWorkKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"OL45804W", "/works/OL45804W", true},
		{"/works/OL45804W", "/works/OL45804W", true},
		{"works/OL45804W.json", "/works/OL45804W", true},
		{"/works/OLTEST", "/works/OLTEST", true},
		{"", "", false},
		{"/works/a/b", "/works/a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := openlibrary.WorkKey(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
