// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blablabook/internal/core/book"
	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/constants"
	"github.com/taibuivan/blablabook/internal/platform/openlibrary"
	"github.com/taibuivan/blablabook/internal/social/rate"
	"github.com/taibuivan/blablabook/internal/testutil"
	"github.com/taibuivan/blablabook/pkg/pointer"
)

const fellowshipKey = "/works/OL27448W"

func fellowship() openlibrary.Work {
	return openlibrary.Work{
		Key:              fellowshipKey,
		Title:            "The Fellowship of the Ring",
		Description:      "One ring to rule them all.",
		Covers:           []int{-1, 14625765},
		Authors:          []openlibrary.WorkAuthor{{Author: openlibrary.KeyRef{Key: "/authors/OL26320A"}}},
		FirstPublishDate: "July 29, 1954",
		Subjects:         []string{"Fantasy fiction", "Accessible book", "Middle Earth (Imaginary place)", "Dragons"},
	}
}

func newFixture(t *testing.T) (*testutil.Store, *testutil.StubSource, *importer.Engine) {
	t.Helper()

	store := testutil.NewStore()
	source := testutil.NewStubSource().
		AddWork(fellowship()).
		AddAuthor(openlibrary.Author{Key: "/authors/OL26320A", Name: "J.R.R. Tolkien", Bio: "Philologist.", Photos: []int{6155606}})

	engine := testutil.NewEngine(store, source)
	t.Cleanup(engine.WaitBackground)
	return store, source, engine
}

// # Prepare

func TestPrepare_ImportsTemporaryBook(t *testing.T) {
	store, _, engine := newFixture(t)

	preparation, err := engine.PrepareBookForAction(context.Background(), "OL27448W", 7, importer.ActionAddRate)
	require.NoError(t, err)

	assert.True(t, preparation.WasImported)
	assert.True(t, preparation.CanRollback)

	imported := preparation.Book
	assert.Equal(t, "The Fellowship of the Ring", imported.Title)
	assert.Equal(t, book.StatusTemporary, imported.ImportStatus)
	assert.Equal(t, fellowshipKey, *imported.OpenLibraryKey)
	assert.Equal(t, "One ring to rule them all.", *imported.Description)
	assert.Equal(t, "https://covers.test/b/id/14625765-L.jpg", *imported.CoverURL)
	assert.Equal(t, 1954, *imported.PublicationYear)
	assert.Equal(t, int64(7), *imported.ImportedBy)
	assert.Equal(t, book.ReasonRate, *imported.ImportReason)
	require.NotNil(t, imported.ImportedAt)

	assert.Equal(t, 1, store.AuthorLinkCount(imported.ID))
	require.Len(t, imported.Genres, 4)
	assert.Equal(t, "Fantasy fiction", imported.Genres[0].Name)

	engine.WaitBackground()

	enriched, err := store.Authors().GetAuthor(context.Background(), imported.Authors[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "J.R.R. Tolkien", enriched.Name)
	assert.Equal(t, "https://covers.test/a/id/6155606-M.jpg", *enriched.ImageURL)
	assert.Equal(t, "Philologist.", *enriched.Bio)
}

func TestPrepare_IsIdempotent(t *testing.T) {
	store, source, engine := newFixture(t)
	ctx := context.Background()

	first, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)

	second, err := engine.PrepareBookForAction(ctx, "OL27448W", 2, importer.ActionAddReview)
	require.NoError(t, err)

	assert.True(t, first.WasImported)
	assert.False(t, second.WasImported)
	assert.False(t, second.CanRollback)
	assert.Equal(t, first.Book.ID, second.Book.ID)
	assert.Equal(t, 1, store.BookCount())
	assert.Equal(t, 1, source.WorkCalls())
}

func TestPrepare_ConcurrentCallersImportOnce(t *testing.T) {
	store, source, engine := newFixture(t)
	source.Delay = 20 * time.Millisecond

	const callers = 12
	var wg sync.WaitGroup
	results := make([]*importer.Preparation, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = engine.PrepareBookForAction(context.Background(), fellowshipKey, int64(i+1), importer.ActionAddRate)
		}()
	}
	wg.Wait()

	imported := 0
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Book.ID, results[i].Book.ID)
		if results[i].WasImported {
			imported++
		}
	}

	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, store.BookCount())
	assert.Equal(t, 1, source.WorkCalls())
}

func TestPrepare_CapsGenres(t *testing.T) {
	store, source, engine := newFixture(t)

	subjects := make([]string, 40)
	for i := range subjects {
		subjects[i] = fmt.Sprintf("Distinct subject %02d", i)
	}
	source.AddWork(testutil.Work("/works/OL40W", "Forty Subjects", subjects...))

	preparation, err := engine.PrepareBookForAction(context.Background(), "/works/OL40W", 1, importer.ActionAddNote)
	require.NoError(t, err)

	assert.Equal(t, constants.MaxGenresPerBook, store.GenreCount(preparation.Book.ID))
	assert.Len(t, preparation.Book.Genres, constants.MaxGenresPerBook)
}

func TestPrepare_FiltersNoiseSubjects(t *testing.T) {
	_, source, engine := newFixture(t)
	source.AddWork(testutil.Work("/works/OL60W", "Noise", "fiction", "ab", strings.Repeat("x", 60), "space opera"))

	preparation, err := engine.PrepareBookForAction(context.Background(), "/works/OL60W", 1, importer.ActionAddReview)
	require.NoError(t, err)

	require.Len(t, preparation.Book.Genres, 1)
	assert.Equal(t, "Space opera", preparation.Book.Genres[0].Name)
	assert.Equal(t, "space-opera", preparation.Book.Genres[0].Slug)
}

func TestPrepare_NoSubjectsIsNotAnError(t *testing.T) {
	store, source, engine := newFixture(t)
	source.AddWork(testutil.Work("/works/OL0W", ""))

	preparation, err := engine.PrepareBookForAction(context.Background(), "/works/OL0W", 1, importer.ActionAddToLibrary)
	require.NoError(t, err)

	assert.Equal(t, constants.UntitledBook, preparation.Book.Title)
	assert.Equal(t, book.ReasonLibrary, *preparation.Book.ImportReason)
	assert.Zero(t, store.GenreCount(preparation.Book.ID))
	assert.Nil(t, preparation.Book.CoverURL)
}

func TestPrepare_SourceFailureLeavesNoBook(t *testing.T) {
	store := testutil.NewStore()
	source := &testutil.MockSource{}
	source.On("GetWork", mock.Anything, "/works/OL404W").Return(nil, openlibrary.ErrNotFound).Once()

	engine := testutil.NewEngine(store, source)

	_, err := engine.PrepareBookForAction(context.Background(), "OL404W", 1, importer.ActionAddRate)
	require.Error(t, err)

	assert.True(t, errors.Is(err, importer.ErrImportFailed))
	assert.True(t, errors.Is(err, openlibrary.ErrNotFound))
	assert.True(t, strings.HasPrefix(err.Error(), "OPENLIB_IMPORT_FAILED:"))
	assert.Zero(t, store.BookCount())
	source.AssertExpectations(t)
}

func TestPrepare_MalformedKeyNeverReachesSource(t *testing.T) {
	source := &testutil.MockSource{}
	engine := testutil.NewEngine(testutil.NewStore(), source)

	_, err := engine.PrepareBookForAction(context.Background(), "/works/../etc", 1, importer.ActionAddRate)
	assert.True(t, errors.Is(err, importer.ErrImportFailed))
	source.AssertNotCalled(t, "GetWork", mock.Anything, mock.Anything)
}

func TestPrepare_EmptyKeyIsValidationError(t *testing.T) {
	_, _, engine := newFixture(t)

	_, err := engine.PrepareBookForAction(context.Background(), "  ", 1, importer.ActionAddRate)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

func TestPrepare_PartialFailureRollsBackWholeImport(t *testing.T) {
	store, source, engine := newFixture(t)
	store.FailOnce("LinkGenre", errors.New("disk full"))

	_, err := engine.PrepareBookForAction(context.Background(), fellowshipKey, 1, importer.ActionAddRate)
	require.Error(t, err)
	assert.False(t, errors.Is(err, importer.ErrImportFailed))
	assert.Zero(t, store.BookCount())

	// The key is free again once the failed attempt released it.
	preparation, err := engine.PrepareBookForAction(context.Background(), fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)
	assert.True(t, preparation.WasImported)
	assert.Equal(t, 2, source.WorkCalls())
}

func TestPrepare_EnrichmentFailureDoesNotAffectImport(t *testing.T) {
	store := testutil.NewStore()
	source := testutil.NewStubSource().AddWork(fellowship()) // no author registered
	engine := testutil.NewEngine(store, source)

	preparation, err := engine.PrepareBookForAction(context.Background(), fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)
	engine.WaitBackground()

	stored, err := store.Authors().GetAuthor(context.Background(), preparation.Book.Authors[0].ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UnknownAuthor, stored.Name)
	assert.Nil(t, stored.ImageURL)
	assert.Equal(t, 1, source.AuthorCalls())
	assert.Equal(t, 1, store.BookCount())
}

// # Commit

func TestCommitAction_ConfirmsWithWrite(t *testing.T) {
	store, _, engine := newFixture(t)
	ctx := context.Background()

	preparation, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)
	bookID := preparation.Book.ID

	err = engine.CommitAction(ctx, bookID, true, func(ctx context.Context) error {
		return store.Rates().CreateRate(ctx, &rate.Rate{UserID: 1, BookID: bookID, Score: 5})
	})
	require.NoError(t, err)

	stored, err := store.Books().GetBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusConfirmed, stored.ImportStatus)
}

func TestCommitAction_FailedWriteKeepsBookTemporary(t *testing.T) {
	store, _, engine := newFixture(t)
	ctx := context.Background()

	preparation, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)
	bookID := preparation.Book.ID

	writeErr := errors.New("write failed")
	err = engine.CommitAction(ctx, bookID, true, func(ctx context.Context) error {
		_ = store.Rates().CreateRate(ctx, &rate.Rate{UserID: 1, BookID: bookID, Score: 5})
		return writeErr
	})
	require.ErrorIs(t, err, writeErr)

	stored, err := store.Books().GetBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusTemporary, stored.ImportStatus)

	rates, _, err := store.Rates().ListByBook(ctx, bookID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, rates)
}

// # Rollback

func TestRollback_NoOpWhenNotImported(t *testing.T) {
	store, _, engine := newFixture(t)
	ctx := context.Background()

	bookID := store.SeedBook(book.Book{Title: "Pre-existing", ImportStatus: book.StatusTemporary})

	deleted, err := engine.RollbackAction(ctx, bookID, false)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 1, store.BookCount())
}

func TestRollback_DeletesUnengagedImport(t *testing.T) {
	store, _, engine := newFixture(t)
	ctx := context.Background()

	preparation, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)

	deleted, err := engine.RollbackAction(ctx, preparation.Book.ID, true)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Zero(t, store.BookCount())
	assert.Zero(t, store.GenreCount(preparation.Book.ID))

	// A second rollback finds nothing to do.
	deleted, err = engine.RollbackAction(ctx, preparation.Book.ID, true)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRollback_PromotesEngagedImport(t *testing.T) {
	store, _, engine := newFixture(t)
	ctx := context.Background()

	preparation, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)
	bookID := preparation.Book.ID

	require.NoError(t, store.Rates().CreateRate(ctx, &rate.Rate{UserID: 2, BookID: bookID, Score: 4}))

	deleted, err := engine.RollbackAction(ctx, bookID, true)
	require.NoError(t, err)
	assert.False(t, deleted)

	stored, err := store.Books().GetBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, book.StatusConfirmed, stored.ImportStatus)
}

func TestRollback_LeavesConfirmedBook(t *testing.T) {
	store, _, engine := newFixture(t)

	bookID := store.SeedBook(book.Book{Title: "Confirmed", ImportStatus: book.StatusConfirmed})

	deleted, err := engine.RollbackAction(context.Background(), bookID, true)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 1, store.BookCount())
}

func TestRollbackImport_RequiresImporterOrAdmin(t *testing.T) {
	_, _, engine := newFixture(t)
	ctx := context.Background()

	preparation, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)

	_, err = engine.RollbackImport(ctx, preparation.Book.ID, 2, false)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	deleted, err := engine.RollbackImport(ctx, preparation.Book.ID, 2, true)
	require.NoError(t, err)
	assert.True(t, deleted)
}

// # Cleanup

func TestCleanup_UsesCutoff(t *testing.T) {
	store, source, engine := newFixture(t)
	ctx := context.Background()
	source.AddWork(testutil.Work("/works/OL10W", "Recent"))

	old, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)
	recent, err := engine.PrepareBookForAction(ctx, "/works/OL10W", 1, importer.ActionAddRate)
	require.NoError(t, err)

	now := store.Now()
	store.SetImportedAt(old.Book.ID, now.Add(-90*time.Minute))
	store.SetImportedAt(recent.Book.ID, now.Add(-10*time.Minute))

	confirmedAt := now.Add(-5 * time.Hour)
	store.SeedBook(book.Book{Title: "Kept", ImportStatus: book.StatusConfirmed, ImportedAt: &confirmedAt})

	deleted, err := engine.CleanupTemporaryImports(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = store.Books().GetBook(ctx, old.Book.ID)
	assert.ErrorIs(t, err, book.ErrNotFound)
	_, err = store.Books().GetBook(ctx, recent.Book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, store.BookCount())
}

func TestCleanup_NonPositiveAgeUsesDefault(t *testing.T) {
	store, _, engine := newFixture(t)
	ctx := context.Background()

	preparation, err := engine.PrepareBookForAction(ctx, fellowshipKey, 1, importer.ActionAddRate)
	require.NoError(t, err)
	store.SetImportedAt(preparation.Book.ID, store.Now().Add(-30*time.Minute))

	deleted, err := engine.CleanupTemporaryImports(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

// # Resolve

func TestResolveBook(t *testing.T) {
	store, _, engine := newFixture(t)
	ctx := context.Background()

	t.Run("neither identifier", func(t *testing.T) {
		_, err := engine.ResolveBook(ctx, importer.BookRef{}, 1, importer.ActionAddRate)
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
	})

	t.Run("unknown local id", func(t *testing.T) {
		_, err := engine.ResolveBook(ctx, importer.BookRef{BookID: pointer.To[int64](999)}, 1, importer.ActionAddRate)
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("local id", func(t *testing.T) {
		bookID := store.SeedBook(book.Book{Title: "Local", ImportStatus: book.StatusConfirmed})

		resolution, err := engine.ResolveBook(ctx, importer.BookRef{BookID: &bookID}, 1, importer.ActionAddRate)
		require.NoError(t, err)
		assert.Equal(t, bookID, resolution.BookID)
		assert.False(t, resolution.WasImported)
		assert.False(t, resolution.Temporary)
	})

	t.Run("external key", func(t *testing.T) {
		resolution, err := engine.ResolveBook(ctx, importer.BookRef{OpenLibraryKey: pointer.To(fellowshipKey)}, 1, importer.ActionAddRate)
		require.NoError(t, err)
		assert.True(t, resolution.WasImported)
		assert.True(t, resolution.Temporary)
	})

	t.Run("import failure", func(t *testing.T) {
		_, err := engine.ResolveBook(ctx, importer.BookRef{OpenLibraryKey: pointer.To("/works/OLMISSINGW")}, 1, importer.ActionAddRate)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
		assert.Equal(t, apperr.CodeImportFailed, appError.Code)
	})
}

func TestReasonFor(t *testing.T) {
	tests := []struct {
		action importer.ActionType
		want   book.ImportReason
	}{
		{importer.ActionAddRate, book.ReasonRate},
		{importer.ActionUpdateRate, book.ReasonRate},
		{importer.ActionAddNote, book.ReasonReview},
		{importer.ActionAddReview, book.ReasonReview},
		{importer.ActionUpdateReview, book.ReasonReview},
		{importer.ActionAddToLibrary, book.ReasonLibrary},
		{importer.ActionAddToReadingList, book.ReasonLibrary},
		{"", book.ReasonSearch},
		{"browse", book.ReasonSearch},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, importer.ReasonFor(tt.action))
		})
	}
}
