// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/blablabook/internal/core/author"
	"github.com/taibuivan/blablabook/internal/core/book"
	"github.com/taibuivan/blablabook/internal/core/genre"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/constants"
	"github.com/taibuivan/blablabook/internal/platform/openlibrary"
	"github.com/taibuivan/blablabook/internal/platform/validate"
	"github.com/taibuivan/blablabook/pkg/pointer"
)

// Dependencies wires an [Engine]. Guard, Now and EnrichmentTimeout are optional.
type Dependencies struct {
	Books   book.Repository
	Authors author.Repository
	Genres  genre.Repository
	Source  Source
	Tx      Transactor
	Guard   Guard
	Logger  *slog.Logger

	Now               func() time.Time
	EnrichmentTimeout time.Duration
}

// Engine runs the import, commit and rollback phases.
type Engine struct {
	books   book.Repository
	authors author.Repository
	genres  genre.Repository
	source  Source
	tx      Transactor
	guard   Guard
	logger  *slog.Logger
	tracer  trace.Tracer

	now               func() time.Time
	enrichmentTimeout time.Duration

	// background tracks detached author enrichment goroutines.
	background sync.WaitGroup
}

func NewEngine(deps Dependencies) *Engine {
	if deps.Guard == nil {
		deps.Guard = NewLocalGuard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.EnrichmentTimeout <= 0 {
		deps.EnrichmentTimeout = constants.AuthorEnrichmentTimeout
	}

	return &Engine{
		books:             deps.Books,
		authors:           deps.Authors,
		genres:            deps.Genres,
		source:            deps.Source,
		tx:                deps.Tx,
		guard:             deps.Guard,
		logger:            deps.Logger,
		tracer:            otel.Tracer("blablabook/importer"),
		now:               deps.Now,
		enrichmentTimeout: deps.EnrichmentTimeout,
	}
}

// # Phase One

// PrepareBookForAction returns the local book for an OpenLibrary key, importing
// it as temporary when missing. Only the call that inserts the row reports
// WasImported; every concurrent caller for the same key sees the same book.
func (engine *Engine) PrepareBookForAction(ctx context.Context, externalKey string, userID int64, action ActionType) (*Preparation, error) {
	ctx, span := engine.tracer.Start(ctx, "importer.PrepareBookForAction", trace.WithAttributes(
		attribute.String("openlibrary.key", externalKey),
		attribute.String("import.action", string(action)),
	))
	defer span.End()

	if strings.TrimSpace(externalKey) == "" {
		return nil, validate.RequiredError("open_library_key", "This field is required")
	}

	key, ok := openlibrary.WorkKey(externalKey)
	if !ok {
		return nil, &ImportFailedError{Key: externalKey, Cause: errors.New("malformed work key")}
	}

	if existing, err := engine.findExisting(ctx, key); err != nil || existing != nil {
		return existingPreparation(existing, err)
	}

	release, err := engine.guard.Acquire(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("importer: wait for %s: %w", key, err)
	}
	defer release()

	// Another caller may have finished the import while we waited.
	if existing, err := engine.findExisting(ctx, key); err != nil || existing != nil {
		return existingPreparation(existing, err)
	}

	started := engine.now()
	imported, err := engine.importBook(ctx, key, userID, ReasonFor(action))
	if err != nil {
		// Another replica without a shared guard won the insert.
		if isConflict(err) {
			existing, findErr := engine.findExisting(ctx, key)
			if findErr == nil && existing != nil {
				return existingPreparation(existing, nil)
			}
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		engine.logger.Warn("book_import_failed",
			slog.String("key", key),
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("book.id", imported.ID))
	engine.logger.Info("book_imported",
		slog.String("key", key),
		slog.Int64("book_id", imported.ID),
		slog.Int64("user_id", userID),
		slog.String("reason", string(ReasonFor(action))),
		slog.Duration("duration", engine.now().Sub(started)),
	)

	return &Preparation{Book: imported, WasImported: true, CanRollback: true}, nil
}

// ResolveBook turns a request's book reference into a local id. A direct id
// must exist; an OpenLibrary key is imported on demand.
func (engine *Engine) ResolveBook(ctx context.Context, ref BookRef, userID int64, action ActionType) (*Resolution, error) {
	switch {
	case ref.BookID != nil:
		if *ref.BookID <= 0 {
			return nil, validate.RequiredError("id_book", "Must be a positive integer")
		}

		existing, err := engine.books.GetBook(ctx, *ref.BookID)
		if err != nil {
			return nil, err
		}
		return &Resolution{BookID: existing.ID, Temporary: existing.IsTemporary()}, nil

	case ref.OpenLibraryKey != nil && strings.TrimSpace(*ref.OpenLibraryKey) != "":
		preparation, err := engine.PrepareBookForAction(ctx, *ref.OpenLibraryKey, userID, action)
		if errors.Is(err, ErrImportFailed) {
			return nil, apperr.ImportUnavailable(*ref.OpenLibraryKey, err)
		}
		if err != nil {
			return nil, err
		}

		return &Resolution{
			BookID:      preparation.Book.ID,
			WasImported: preparation.WasImported,
			Temporary:   preparation.Book.IsTemporary(),
		}, nil

	default:
		return nil, validate.RequiredError("id_book", "Either id_book or open_library_key is required")
	}
}

// # Phase Two

// CommitAction runs write and, when promote is set, confirms the book in the
// same transaction. Either both persist or neither does.
//
// Callers pass [Resolution.Temporary]: that is true for a fresh import and for
// any book still awaiting its first engagement.
func (engine *Engine) CommitAction(ctx context.Context, bookID int64, promote bool, write func(ctx context.Context) error) error {
	ctx, span := engine.tracer.Start(ctx, "importer.CommitAction", trace.WithAttributes(attribute.Int64("book.id", bookID)))
	defer span.End()

	err := engine.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := write(ctx); err != nil {
			return err
		}
		if !promote {
			return nil
		}

		confirmed, err := engine.books.Confirm(ctx, bookID)
		if err != nil {
			return err
		}
		if confirmed {
			engine.logger.Info("book_import_confirmed", slog.Int64("book_id", bookID))
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// RollbackAction deletes a temporary import that nothing references. A book
// that gained an engagement meanwhile is confirmed instead. Confirmed books and
// missing rows are left alone. It reports whether the book was deleted.
func (engine *Engine) RollbackAction(ctx context.Context, bookID int64, wasImported bool) (bool, error) {
	if !wasImported {
		return false, nil
	}

	ctx, span := engine.tracer.Start(ctx, "importer.RollbackAction", trace.WithAttributes(attribute.Int64("book.id", bookID)))
	defer span.End()

	var deleted bool
	err := engine.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := engine.books.LockBook(ctx, bookID)
		if errors.Is(err, book.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !locked.IsTemporary() {
			return nil
		}

		engagements, err := engine.books.CountEngagements(ctx, bookID)
		if err != nil {
			return err
		}
		if engagements > 0 {
			_, err := engine.books.Confirm(ctx, bookID)
			return err
		}

		if err := engine.books.DeleteBook(ctx, bookID); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	if deleted {
		engine.logger.Info("book_import_rolled_back", slog.Int64("book_id", bookID))
	}
	return deleted, nil
}

// RollbackImport is [Engine.RollbackAction] on behalf of an HTTP caller. Only
// the user who imported the book, or an admin, may undo the import.
func (engine *Engine) RollbackImport(ctx context.Context, bookID, userID int64, isAdmin bool) (bool, error) {
	existing, err := engine.books.GetBook(ctx, bookID)
	if err != nil {
		return false, err
	}

	owner := existing.ImportedBy != nil && *existing.ImportedBy == userID
	if !owner && !isAdmin {
		return false, apperr.Forbidden("Only the importing user can roll back this import")
	}
	return engine.RollbackAction(ctx, bookID, true)
}

// # Maintenance

// CleanupTemporaryImports deletes temporary books imported more than
// olderThanMinutes ago. Non-positive values use the default age.
func (engine *Engine) CleanupTemporaryImports(ctx context.Context, olderThanMinutes int) (int64, error) {
	if olderThanMinutes <= 0 {
		olderThanMinutes = constants.DefaultSweepMaxAgeMinutes
	}
	cutoff := engine.now().Add(-time.Duration(olderThanMinutes) * time.Minute)

	deleted, err := engine.books.DeleteTemporaryImportedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		engine.logger.Info("temporary_imports_cleaned",
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff),
		)
	}
	return deleted, nil
}

// SearchExternal queries OpenLibrary without importing anything.
func (engine *Engine) SearchExternal(ctx context.Context, query string, limit int) (*openlibrary.SearchResult, error) {
	validator := &validate.Validator{}
	validator.Required("q", query).MaxLen("q", query, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > constants.ExternalSearchLimit {
		limit = constants.ExternalSearchLimit
	}

	result, err := engine.source.SearchWorks(ctx, query, limit)
	if errors.Is(err, openlibrary.ErrUnavailable) {
		return nil, apperr.ServiceUnavailable("OpenLibrary is temporarily unavailable")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// WaitBackground blocks until every detached enrichment has finished.
func (engine *Engine) WaitBackground() {
	engine.background.Wait()
}

// # Import

func (engine *Engine) findExisting(ctx context.Context, key string) (*book.Book, error) {
	existing, err := engine.books.GetByOpenLibraryKey(ctx, key)
	if errors.Is(err, book.ErrNotFound) {
		return nil, nil
	}
	return existing, err
}

func existingPreparation(existing *book.Book, err error) (*Preparation, error) {
	if err != nil {
		return nil, err
	}
	return &Preparation{Book: existing}, nil
}

// importBook fetches the work and writes the book with its authors and genres
// in one transaction. Authors are enriched afterwards without blocking.
func (engine *Engine) importBook(ctx context.Context, key string, userID int64, reason book.ImportReason) (*book.Book, error) {
	work, err := engine.source.GetWork(ctx, key)
	if err != nil {
		return nil, &ImportFailedError{Key: key, Cause: err}
	}
	if work == nil || (work.Key == "" && strings.TrimSpace(work.Title) == "") {
		return nil, &ImportFailedError{Key: key, Cause: errNoData}
	}

	imported := engine.newBook(work, key, userID, reason)
	candidates := genre.SelectGenres(work.Subjects, constants.MaxGenresPerBook)

	var linked []author.Author
	var genres []genre.Genre

	err = engine.tx.WithinTx(ctx, func(ctx context.Context) error {
		linked, genres = nil, nil

		if err := engine.books.CreateBook(ctx, imported); err != nil {
			return err
		}

		for _, authorKey := range uniqueAuthorKeys(work.AuthorKeys()) {
			stored, err := engine.authors.FindOrCreateByOpenLibraryKey(ctx, authorKey, constants.UnknownAuthor)
			if err != nil {
				return err
			}
			if err := engine.books.LinkAuthor(ctx, imported.ID, stored.ID); err != nil {
				return err
			}
			linked = append(linked, *stored)
		}

		for _, candidate := range candidates {
			stored, err := engine.genres.FindOrCreate(ctx, candidate.Name, candidate.Slug)
			if err != nil {
				return err
			}
			if err := engine.books.LinkGenre(ctx, imported.ID, stored.ID); err != nil {
				return err
			}
			genres = append(genres, *stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	imported.Authors = linked
	imported.Genres = genres

	for _, stored := range linked {
		if stored.ImageURL == nil || stored.Name == constants.UnknownAuthor {
			engine.enrichAuthor(ctx, stored)
		}
	}
	return imported, nil
}

func (engine *Engine) newBook(work *openlibrary.Work, key string, userID int64, reason book.ImportReason) *book.Book {
	importedAt := engine.now()

	imported := &book.Book{
		Title:          strings.TrimSpace(work.Title),
		OpenLibraryKey: pointer.To(key),
		ImportStatus:   book.StatusTemporary,
		ImportedAt:     &importedAt,
		ImportReason:   &reason,
		Authors:        []author.Author{},
		Genres:         []genre.Genre{},
	}
	if imported.Title == "" {
		imported.Title = constants.UntitledBook
	}
	if userID > 0 {
		imported.ImportedBy = pointer.To(userID)
	}
	imported.Description = pointer.NonBlank(string(work.Description))
	if year, ok := work.PublicationYear(); ok {
		imported.PublicationYear = &year
	}
	if coverID, ok := work.CoverID(); ok {
		imported.CoverURL = pointer.To(engine.source.CoverURL(coverID))
	}
	return imported
}

// enrichAuthor fills name, portrait and bio from OpenLibrary in the
// background. Failures are logged and never reach the caller.
func (engine *Engine) enrichAuthor(ctx context.Context, target author.Author) {
	if target.OpenLibraryKey == nil {
		return
	}

	engine.background.Add(1)
	go func() {
		defer engine.background.Done()
		defer func() {
			if recovered := recover(); recovered != nil {
				engine.logger.Error("author_enrichment_panicked",
					slog.Int64("author_id", target.ID),
					slog.Any("panic", recovered),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), engine.enrichmentTimeout)
		defer cancel()

		details, err := engine.source.GetAuthor(ctx, *target.OpenLibraryKey)
		if err != nil {
			engine.logger.Warn("author_enrichment_failed",
				slog.Int64("author_id", target.ID),
				slog.Any("error", err),
			)
			return
		}

		var imageURL *string
		if photoID, ok := details.PhotoID(); ok {
			imageURL = pointer.To(engine.source.AuthorPhotoURL(photoID))
		}

		if err := engine.authors.ApplyEnrichment(ctx, target.ID, strings.TrimSpace(details.Name), imageURL, pointer.NonBlank(string(details.Bio))); err != nil {
			engine.logger.Warn("author_enrichment_failed",
				slog.Int64("author_id", target.ID),
				slog.Any("error", err),
			)
		}
	}()
}

func uniqueAuthorKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, raw := range keys {
		key := openlibrary.AuthorKey(raw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	return unique
}

func isConflict(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.HTTPStatus == http.StatusConflict
}
