// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rate_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/taibuivan/blablabook/internal/core/book"
	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/social/rate"
	"github.com/taibuivan/blablabook/internal/testutil"
	"github.com/taibuivan/blablabook/pkg/pointer"
)

const duneKey = "/works/OL893415W"

type fixture struct {
	store   *testutil.Store
	source  *testutil.StubSource
	engine  *importer.Engine
	service *rate.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	source := testutil.NewStubSource().AddWork(testutil.Work(duneKey, "Dune", "Science fiction"))
	engine := testutil.NewEngine(store, source)
	t.Cleanup(engine.WaitBackground)

	return &fixture{
		store:   store,
		source:  source,
		engine:  engine,
		service: rate.NewService(store.Rates(), engine, testutil.Logger()),
	}
}

func byKey(key string, score int) rate.CreateInput {
	return rate.CreateInput{BookRef: importer.BookRef{OpenLibraryKey: pointer.To(key)}, Score: score}
}

func TestCreateRate_ImportsAndConfirms(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.service.CreateRate(ctx, 1, byKey(duneKey, 5))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 5, created.Score)

	stored, err := f.store.Books().GetBook(ctx, created.BookID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusConfirmed, stored.ImportStatus)
	assert.Equal(t, book.ReasonRate, *stored.ImportReason)
}

func TestCreateRate_ByIDPromotesTemporaryBook(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	bookID := f.store.SeedBook(book.Book{Title: "Dune", ImportStatus: book.StatusTemporary})
	f.store.SetImportedAt(bookID, f.store.Now().Add(-2*time.Hour))

	_, err := f.service.CreateRate(ctx, 1, rate.CreateInput{BookRef: importer.BookRef{BookID: &bookID}, Score: 4})
	require.NoError(t, err)

	stored, err := f.store.Books().GetBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusConfirmed, stored.ImportStatus)

	swept, err := f.engine.CleanupTemporaryImports(ctx, 60)
	require.NoError(t, err)
	assert.Zero(t, swept)
	assert.Equal(t, 1, f.store.BookCount())
}

func TestCreateRate_FailedWriteLeavesBookTemporary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	bookID := f.store.SeedBook(book.Book{Title: "Dune", ImportStatus: book.StatusTemporary})
	f.store.FailOnce("CreateRate", errors.New("connection reset"))

	_, err := f.service.CreateRate(ctx, 1, rate.CreateInput{BookRef: importer.BookRef{BookID: &bookID}, Score: 4})
	require.Error(t, err)

	stored, err := f.store.Books().GetBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusTemporary, stored.ImportStatus, "promotion commits with the rate or not at all")
}

func TestCreateRate_DuplicateIsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.service.CreateRate(ctx, 1, byKey(duneKey, 4))
	require.NoError(t, err)

	_, err = f.service.CreateRate(ctx, 1, rate.CreateInput{BookRef: importer.BookRef{BookID: &first.BookID}, Score: 2})
	require.ErrorIs(t, err, rate.ErrDuplicate)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)

	// The existing rating and its book survive.
	assert.Equal(t, 1, f.store.BookCount())
	summary, err := f.service.Summarize(ctx, first.BookID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 4.0, summary.Average, 0.001)
}

func TestCreateRate_DuplicateByKeyAfterImport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.CreateRate(ctx, 1, byKey(duneKey, 4))
	require.NoError(t, err)

	_, err = f.service.CreateRate(ctx, 1, byKey("OL893415W", 3))
	require.ErrorIs(t, err, rate.ErrDuplicate)
	assert.Equal(t, 1, f.store.BookCount())
	assert.Equal(t, 1, f.source.WorkCalls())
}

func TestCreateRate_InvalidScoreImportsNothing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := &fixture{store: testutil.NewStore(), source: testutil.NewStubSource().AddWork(testutil.Work(duneKey, "Dune"))}
		f.engine = testutil.NewEngine(f.store, f.source)
		f.service = rate.NewService(f.store.Rates(), f.engine, testutil.Logger())

		score := rapid.OneOf(rapid.IntRange(-1000, rate.MinScore-1), rapid.IntRange(rate.MaxScore+1, 1000)).Draw(t, "score")

		_, err := f.service.CreateRate(context.Background(), 1, byKey(duneKey, score))
		if apperr.As(err) == nil || apperr.As(err).HTTPStatus != http.StatusBadRequest {
			t.Fatalf("score %d: want validation error, got %v", score, err)
		}
		if f.store.BookCount() != 0 || f.source.WorkCalls() != 0 {
			t.Fatalf("score %d: book was imported", score)
		}
	})
}

func TestCreateRate_WriteFailureRollsBackImport(t *testing.T) {
	f := setup(t)
	f.store.FailOnce("CreateRate", errors.New("connection reset"))

	_, err := f.service.CreateRate(context.Background(), 1, byKey(duneKey, 3))
	require.Error(t, err)
	assert.Zero(t, f.store.BookCount())
}

func TestCreateRate_WriteFailureKeepsExistingBook(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	bookID := f.store.SeedBook(book.Book{Title: "Local", ImportStatus: book.StatusConfirmed})
	f.store.FailOnce("CreateRate", errors.New("connection reset"))

	_, err := f.service.CreateRate(ctx, 1, rate.CreateInput{BookRef: importer.BookRef{BookID: &bookID}, Score: 3})
	require.Error(t, err)
	assert.Equal(t, 1, f.store.BookCount())
}

func TestCreateRate_UnknownKeyIsImportFailure(t *testing.T) {
	f := setup(t)

	_, err := f.service.CreateRate(context.Background(), 1, byKey("/works/OL1NOPEW", 3))
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeImportFailed, appError.Code)
	assert.Zero(t, f.store.BookCount())
}

func TestUpdateRate_OwnerOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.service.CreateRate(ctx, 1, byKey(duneKey, 2))
	require.NoError(t, err)

	_, err = f.service.UpdateRate(ctx, created.ID, 2, rate.UpdateInput{Score: 5})
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	updated, err := f.service.UpdateRate(ctx, created.ID, 1, rate.UpdateInput{Score: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Score)

	_, err = f.service.UpdateRate(ctx, created.ID, 1, rate.UpdateInput{Score: 6})
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

func TestDeleteRate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.service.CreateRate(ctx, 1, byKey(duneKey, 2))
	require.NoError(t, err)

	err = f.service.DeleteRate(ctx, created.ID, 2, false)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	require.NoError(t, f.service.DeleteRate(ctx, created.ID, 2, true))

	err = f.service.DeleteRate(ctx, created.ID, 1, false)
	assert.ErrorIs(t, err, rate.ErrNotFound)
}
