// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	return service.repo.ListBooks(context, filter, limit, offset)
}

func (service *Service) GetBook(context context.Context, id int64) (*Book, error) {
	return service.repo.GetBook(context, id)
}

// DeleteBook hard-deletes a book and, through cascades, every engagement on it.
func (service *Service) DeleteBook(context context.Context, id int64) error {
	if err := service.repo.DeleteBook(context, id); err != nil {
		return err
	}

	service.logger.Warn("book_deleted", slog.Int64("book_id", id))
	return nil
}
