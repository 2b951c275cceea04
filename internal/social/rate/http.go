// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blablabook/internal/platform/middleware"
	requestutil "github.com/taibuivan/blablabook/internal/platform/request"
	"github.com/taibuivan/blablabook/internal/platform/respond"
	"github.com/taibuivan/blablabook/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/book/{bookID}", handler.listBookRates)
	router.Get("/book/{bookID}/summary", handler.summarize)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.listMyRates)
		protected.Post("/", handler.createRate)
		protected.Patch("/{id}", handler.updateRate)
		protected.Delete("/{id}", handler.deleteRate)
	})
}

func (handler *Handler) createRate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rate, err := handler.service.CreateRate(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, rate)
}

func (handler *Handler) updateRate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rateID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rate, err := handler.service.UpdateRate(request.Context(), rateID, userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rate)
}

func (handler *Handler) deleteRate(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rateID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteRate(request.Context(), rateID, claims.UserID, claims.IsAdmin()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listBookRates(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	rates, total, err := handler.service.ListBookRates(request.Context(), bookID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, rates, paginationParams.Meta(total))
}

func (handler *Handler) listMyRates(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	rates, total, err := handler.service.ListUserRates(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, rates, paginationParams.Meta(total))
}

func (handler *Handler) summarize(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.service.Summarize(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}
