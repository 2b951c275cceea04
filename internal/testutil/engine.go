// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"time"

	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/platform/openlibrary"
)

// NewEngine wires an import engine over store and source with a local guard.
func NewEngine(store *Store, source importer.Source) *importer.Engine {
	return importer.NewEngine(importer.Dependencies{
		Books:   store.Books(),
		Authors: store.Authors(),
		Genres:  store.Genres(),
		Source:  source,
		Tx:      store,
		Guard:   importer.NewLocalGuard(),
		Logger:  Logger(),
		Now:     func() time.Time { return store.Now() },
	})
}

// Work builds an OpenLibrary work fixture.
func Work(key, title string, subjects ...string) openlibrary.Work {
	return openlibrary.Work{Key: key, Title: title, Subjects: subjects}
}
