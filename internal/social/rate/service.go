// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rate

import (
	"context"
	"errors"
	"log/slog"

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

type Service struct {
	repo   Repository
	books  BookResolver
	logger *slog.Logger
}

func NewService(repo Repository, books BookResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		books:  books,
		logger: logger,
	}
}

// CreateRate rates a book, importing it from OpenLibrary when referenced by key.
func (service *Service) CreateRate(ctx context.Context, userID int64, input CreateInput) (*Rate, error) {
	if err := validateScore(input.Score); err != nil {
		return nil, err
	}

	resolution, err := service.books.ResolveBook(ctx, input.BookRef, userID, importer.ActionAddRate)
	if err != nil {
		return nil, err
	}

	rate := &Rate{UserID: userID, BookID: resolution.BookID, Score: input.Score}

	err = service.books.CommitAction(ctx, resolution.BookID, resolution.Temporary, func(ctx context.Context) error {
		_, err := service.repo.FindByUserAndBook(ctx, userID, resolution.BookID)
		switch {
		case err == nil:
			return ErrDuplicate
		case !errors.Is(err, ErrNotFound):
			return err
		}
		return service.repo.CreateRate(ctx, rate)
	})
	if err != nil {
		service.abandon(ctx, resolution)
		return nil, err
	}

	service.logger.Info("rate_created",
		slog.Int64("rate_id", rate.ID),
		slog.Int64("book_id", rate.BookID),
		slog.Bool("book_imported", resolution.WasImported),
	)
	return rate, nil
}

// UpdateRate changes the score of a rating owned by userID.
func (service *Service) UpdateRate(context context.Context, id, userID int64, input UpdateInput) (*Rate, error) {
	if err := validateScore(input.Score); err != nil {
		return nil, err
	}

	rate, err := service.repo.GetRate(context, id)
	if err != nil {
		return nil, err
	}
	if rate.UserID != userID {
		return nil, apperr.Forbidden("You can only update your own ratings")
	}

	if err := service.repo.UpdateScore(context, id, input.Score); err != nil {
		return nil, err
	}
	rate.Score = input.Score

	service.logger.Info("rate_updated", slog.Int64("rate_id", id))
	return rate, nil
}

// DeleteRate removes a rating. Admins may delete any rating.
func (service *Service) DeleteRate(context context.Context, id, userID int64, isAdmin bool) error {
	rate, err := service.repo.GetRate(context, id)
	if err != nil {
		return err
	}
	if rate.UserID != userID && !isAdmin {
		return apperr.Forbidden("You can only delete your own ratings")
	}

	if err := service.repo.DeleteRate(context, id); err != nil {
		return err
	}

	service.logger.Info("rate_deleted", slog.Int64("rate_id", id))
	return nil
}

func (service *Service) ListBookRates(context context.Context, bookID int64, limit, offset int) ([]*Rate, int, error) {
	return service.repo.ListByBook(context, bookID, limit, offset)
}

func (service *Service) ListUserRates(context context.Context, userID int64, limit, offset int) ([]*Rate, int, error) {
	return service.repo.ListByUser(context, userID, limit, offset)
}

func (service *Service) Summarize(context context.Context, bookID int64) (*Summary, error) {
	return service.repo.Summarize(context, bookID)
}

// abandon undoes a fresh import whose rating could not be written.
func (service *Service) abandon(context context.Context, resolution *importer.Resolution) {
	if _, err := service.books.RollbackAction(context, resolution.BookID, resolution.WasImported); err != nil {
		service.logger.Error("book_import_rollback_failed",
			slog.Int64("book_id", resolution.BookID),
			slog.Any("error", err),
		)
	}
}

func validateScore(score int) error {
	validator := &validate.Validator{}
	validator.Range(FieldScore, score, MinScore, MaxScore)
	return validator.Err()
}
