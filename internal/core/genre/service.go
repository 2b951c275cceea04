// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

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

func (service *Service) ListGenres(context context.Context) ([]*Genre, error) {
	return service.repo.ListGenres(context)
}

func (service *Service) GetGenre(context context.Context, id int64) (*Genre, error) {
	return service.repo.GetGenre(context, id)
}
