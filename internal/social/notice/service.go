// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notice

import (
	"context"
	"log/slog"
	"strings"

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

// CreateNotice posts a review on a book, importing it from OpenLibrary when
// referenced by key.
func (service *Service) CreateNotice(ctx context.Context, userID int64, input CreateInput) (*Notice, error) {
	notice := &Notice{
		UserID:    userID,
		Title:     strings.TrimSpace(input.Title),
		Content:   strings.TrimSpace(input.Content),
		IsSpoiler: input.IsSpoiler,
		IsPublic:  input.IsPublic == nil || *input.IsPublic,
	}
	if err := validateNotice(notice); err != nil {
		return nil, err
	}

	resolution, err := service.books.ResolveBook(ctx, input.BookRef, userID, importer.ActionAddReview)
	if err != nil {
		return nil, err
	}
	notice.BookID = resolution.BookID

	err = service.books.CommitAction(ctx, resolution.BookID, resolution.Temporary, func(ctx context.Context) error {
		return service.repo.CreateNotice(ctx, notice)
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

	service.logger.Info("notice_created",
		slog.Int64("notice_id", notice.ID),
		slog.Int64("book_id", notice.BookID),
		slog.Bool("book_imported", resolution.WasImported),
	)
	return notice, nil
}

func (service *Service) UpdateNotice(context context.Context, id, userID int64, input UpdateInput) (*Notice, error) {
	notice, err := service.repo.GetNotice(context, id)
	if err != nil {
		return nil, err
	}
	if notice.UserID != userID {
		return nil, apperr.Forbidden("You can only edit your own notices")
	}

	if input.Title != nil {
		notice.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		notice.Content = strings.TrimSpace(*input.Content)
	}
	if input.IsSpoiler != nil {
		notice.IsSpoiler = *input.IsSpoiler
	}
	if input.IsPublic != nil {
		notice.IsPublic = *input.IsPublic
	}

	if err := validateNotice(notice); err != nil {
		return nil, err
	}
	if err := service.repo.UpdateNotice(context, notice); err != nil {
		return nil, err
	}

	service.logger.Info("notice_updated", slog.Int64("notice_id", id))
	return notice, nil
}

func (service *Service) DeleteNotice(context context.Context, id, userID int64, isAdmin bool) error {
	notice, err := service.repo.GetNotice(context, id)
	if err != nil {
		return err
	}
	if notice.UserID != userID && !isAdmin {
		return apperr.Forbidden("You can only delete your own notices")
	}

	if err := service.repo.DeleteNotice(context, id); err != nil {
		return err
	}

	service.logger.Info("notice_deleted", slog.Int64("notice_id", id))
	return nil
}

// GetNotice hides private notices from everyone but their author.
func (service *Service) GetNotice(context context.Context, id, viewerID int64) (*Notice, error) {
	notice, err := service.repo.GetNotice(context, id)
	if err != nil {
		return nil, err
	}
	if !notice.IsPublic && notice.UserID != viewerID {
		return nil, ErrNotFound
	}
	return notice, nil
}

// ListBookNotices returns public notices and the viewer's own private ones.
// viewerID is zero for anonymous callers.
func (service *Service) ListBookNotices(context context.Context, bookID, viewerID int64, limit, offset int) ([]*Notice, int, error) {
	return service.repo.ListByBook(context, bookID, viewerID, limit, offset)
}

func (service *Service) ListUserNotices(context context.Context, userID int64, limit, offset int) ([]*Notice, int, error) {
	return service.repo.ListByUser(context, userID, limit, offset)
}

func validateNotice(notice *Notice) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, notice.Title).MaxLen(FieldTitle, notice.Title, maxTitleLength)
	validator.Required(FieldContent, notice.Content).MaxLen(FieldContent, notice.Content, maxContentLength)

	return validator.Err()
}
