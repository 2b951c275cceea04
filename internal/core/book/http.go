// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blablabook/internal/platform/middleware"
	requestutil "github.com/taibuivan/blablabook/internal/platform/request"
	"github.com/taibuivan/blablabook/internal/platform/respond"
	"github.com/taibuivan/blablabook/internal/platform/sec"
	"github.com/taibuivan/blablabook/pkg/pagination"
	querystring "github.com/taibuivan/blablabook/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)

	router.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.deleteBook)
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	query := request.URL.Query()
	filter := Filter{
		Query:    query.Get("q"),
		GenreIDs: querystring.IDs(query.Get("genre_id")),
		AuthorID: optionalID(query.Get("author_id")),
	}

	books, total, err := handler.service.ListBooks(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, paginationParams.Meta(total))
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// optionalID parses a positive id filter, ignoring anything else.
func optionalID(raw string) *int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
