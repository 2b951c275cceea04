// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"log/slog"

	"github.com/taibuivan/blablabook/internal/platform/validate"
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

func (service *Service) ListAuthors(context context.Context, filter Filter, limit, offset int) ([]*Author, int, error) {
	return service.repo.ListAuthors(context, filter, limit, offset)
}

func (service *Service) GetAuthor(context context.Context, id int64) (*Author, error) {
	return service.repo.GetAuthor(context, id)
}

// CreateAuthor adds an author by hand. Imported authors go through the
// repository directly and never reach this path.
func (service *Service) CreateAuthor(context context.Context, input Input) (*Author, error) {
	author := &Author{}
	input.apply(author)
	if err := validateAuthor(author); err != nil {
		return nil, err
	}

	if err := service.repo.CreateAuthor(context, author); err != nil {
		return nil, err
	}

	service.logger.Info("author_created", slog.Int64("author_id", author.ID), slog.String("name", author.Name))
	return author, nil
}

// UpdateAuthor patches the fields set in input and keeps the rest.
func (service *Service) UpdateAuthor(context context.Context, id int64, input Input) (*Author, error) {
	author, err := service.repo.GetAuthor(context, id)
	if err != nil {
		return nil, err
	}

	input.apply(author)
	if err := validateAuthor(author); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateAuthor(context, author); err != nil {
		return nil, err
	}

	service.logger.Info("author_updated", slog.Int64("author_id", author.ID))
	return author, nil
}

func (service *Service) DeleteAuthor(context context.Context, id int64) error {
	if err := service.repo.DeleteAuthor(context, id); err != nil {
		return err
	}

	service.logger.Warn("author_deleted", slog.Int64("author_id", id))
	return nil
}

func validateAuthor(author *Author) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, author.Name).MaxLen(FieldName, author.Name, 255)
	if author.ImageURL != nil {
		validator.URL(FieldImageURL, *author.ImageURL)
	}
	if author.Bio != nil {
		validator.MaxLen(FieldBio, *author.Bio, 5000)
	}

	return validator.Err()
}
