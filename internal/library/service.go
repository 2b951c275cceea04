// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/blablabook/internal/core/importer"
	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/validate"
)

// BookResolver is the slice of [importer.Engine] the service depends on.
type BookResolver interface {
	ResolveBook(ctx context.Context, ref importer.BookRef, userID int64, action importer.ActionType) (*importer.Resolution, error)
	CommitAction(ctx context.Context, bookID int64, promote bool, write func(ctx context.Context) error) error
	RollbackAction(ctx context.Context, bookID int64, wasImported bool) (bool, error)
}

// Actor is the user performing a request.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

type Service struct {
	repo   Repository
	books  BookResolver
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

func NewService(repo Repository, books BookResolver, logger *slog.Logger, opts ...Option) *Service {
	service := &Service{
		repo:   repo,
		books:  books,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// # Libraries

func (service *Service) CreateLibrary(context context.Context, userID int64, input LibraryInput) (*Library, error) {
	library := &Library{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		IsPublic:    input.IsPublic,
	}
	if err := validateLibrary(library); err != nil {
		return nil, err
	}

	if err := service.repo.CreateLibrary(context, library); err != nil {
		return nil, err
	}

	service.logger.Info("library_created", slog.Int64("library_id", library.ID), slog.Int64("user_id", userID))
	return library, nil
}

func (service *Service) ListLibraries(context context.Context, userID int64) ([]*Library, error) {
	return service.repo.ListLibraries(context, userID)
}

// GetLibrary hides private libraries from everyone but their owner and admins.
func (service *Service) GetLibrary(context context.Context, actor Actor, id int64) (*Library, error) {
	library, err := service.repo.GetLibrary(context, id)
	if err != nil {
		return nil, err
	}
	if !library.CanRead(actor.UserID, actor.IsAdmin) {
		return nil, ErrNotFound
	}
	return library, nil
}

func (service *Service) UpdateLibrary(context context.Context, actor Actor, id int64, input LibraryInput) (*Library, error) {
	library, err := service.writableLibrary(context, actor, id)
	if err != nil {
		return nil, err
	}

	library.Name = strings.TrimSpace(input.Name)
	library.Description = input.Description
	library.IsPublic = input.IsPublic
	if err := validateLibrary(library); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateLibrary(context, library); err != nil {
		return nil, err
	}
	return library, nil
}

func (service *Service) DeleteLibrary(context context.Context, actor Actor, id int64) error {
	if _, err := service.writableLibrary(context, actor, id); err != nil {
		return err
	}

	if err := service.repo.DeleteLibrary(context, id); err != nil {
		return err
	}

	service.logger.Info("library_deleted", slog.Int64("library_id", id))
	return nil
}

// # Reading List

// AddToReadingList puts a book in a library, importing it from OpenLibrary when
// referenced by key. Ownership is checked before any import is attempted.
func (service *Service) AddToReadingList(ctx context.Context, actor Actor, libraryID int64, input EntryInput) (*Entry, error) {
	status := input.Status
	if status == "" {
		status = StatusToRead
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	if _, err := service.writableLibrary(ctx, actor, libraryID); err != nil {
		return nil, err
	}

	resolution, err := service.books.ResolveBook(ctx, input.BookRef, actor.UserID, importer.ActionAddToReadingList)
	if err != nil {
		return nil, err
	}

	entry := &Entry{LibraryID: libraryID, BookID: resolution.BookID}
	ApplyStatus(entry, status, service.now())

	err = service.books.CommitAction(ctx, resolution.BookID, resolution.Temporary, func(ctx context.Context) error {
		_, err := service.repo.FindEntry(ctx, libraryID, resolution.BookID)
		switch {
		case err == nil:
			return ErrDuplicate
		case !errors.Is(err, ErrEntryNotFound):
			return err
		}
		return service.repo.CreateEntry(ctx, entry)
	})
	if err != nil {
		if _, rollbackErr := service.books.RollbackAction(ctx, resolution.BookID, resolution.WasImported); rollbackErr != nil {
			service.logger.Error("book_import_rollback_failed",
				slog.Int64("book_id", resolution.BookID),
				slog.Any("error", rollbackErr),
			)
		}
		return nil, err
	}

	service.logger.Info("reading_list_entry_added",
		slog.Int64("entry_id", entry.ID),
		slog.Int64("library_id", libraryID),
		slog.Int64("book_id", entry.BookID),
		slog.String("status", string(entry.Status)),
	)
	return entry, nil
}

// UpdateEntryStatus moves an entry to a new reading status.
func (service *Service) UpdateEntryStatus(context context.Context, actor Actor, entryID int64, status ReadingStatus) (*Entry, error) {
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	entry, err := service.writableEntry(context, actor, entryID)
	if err != nil {
		return nil, err
	}

	ApplyStatus(entry, status, service.now())
	if err := service.repo.UpdateEntry(context, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (service *Service) RemoveEntry(context context.Context, actor Actor, entryID int64) error {
	if _, err := service.writableEntry(context, actor, entryID); err != nil {
		return err
	}
	return service.repo.DeleteEntry(context, entryID)
}

func (service *Service) ListEntries(context context.Context, actor Actor, libraryID int64, limit, offset int) ([]*Entry, int, error) {
	if _, err := service.GetLibrary(context, actor, libraryID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListEntries(context, libraryID, limit, offset)
}

// # Helpers

func (service *Service) writableLibrary(context context.Context, actor Actor, id int64) (*Library, error) {
	library, err := service.repo.GetLibrary(context, id)
	if err != nil {
		return nil, err
	}
	if !library.CanWrite(actor.UserID, actor.IsAdmin) {
		return nil, apperr.Forbidden("You do not own this library")
	}
	return library, nil
}

func (service *Service) writableEntry(context context.Context, actor Actor, entryID int64) (*Entry, error) {
	entry, err := service.repo.GetEntry(context, entryID)
	if err != nil {
		return nil, err
	}
	if _, err := service.writableLibrary(context, actor, entry.LibraryID); err != nil {
		return nil, err
	}
	return entry, nil
}

func validateLibrary(library *Library) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, library.Name).MaxLen(FieldName, library.Name, 100)
	if library.Description != nil {
		validator.MaxLen(FieldDescription, *library.Description, 1000)
	}

	return validator.Err()
}

func validateStatus(status ReadingStatus) error {
	allowed := make([]string, len(Statuses))
	for i, s := range Statuses {
		allowed[i] = string(s)
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, string(status), allowed...)
	return validator.Err()
}
