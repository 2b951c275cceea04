// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blablabook/internal/platform/middleware"
	requestutil "github.com/taibuivan/blablabook/internal/platform/request"
	"github.com/taibuivan/blablabook/internal/platform/respond"
	"github.com/taibuivan/blablabook/internal/platform/sec"
	"github.com/taibuivan/blablabook/pkg/pagination"
)

// Handler serves /authors. Most authors arrive with an imported book; these
// routes let readers browse them and let moderators fix names, portraits and
// bios the enrichment got wrong.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listAuthors)
	router.Get("/{id}", handler.withAuthorID(handler.getAuthor))

	router.Group(func(moderated chi.Router) {
		moderated.Use(middleware.RequireRole(sec.RoleModerator))

		moderated.Post("/", handler.createAuthor)
		moderated.Patch("/{id}", handler.withAuthorID(handler.updateAuthor))

		// Books keep their author link, so removal stays with admins.
		moderated.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.withAuthorID(handler.deleteAuthor))
	})
}

type authorHandlerFunc func(writer http.ResponseWriter, request *http.Request, authorID int64)

// withAuthorID parses the {id} path segment before calling next.
func (handler *Handler) withAuthorID(next authorHandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorID, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		next(writer, request, authorID)
	}
}

// listAuthors searches the catalogue by name with ?q=.
func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	filter := Filter{Query: request.URL.Query().Get("q")}

	authors, total, err := handler.service.ListAuthors(request.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, authors, page.Meta(total))
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request, authorID int64) {
	author, err := handler.service.GetAuthor(request.Context(), authorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.CreateAuthor(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request, authorID int64) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.UpdateAuthor(request.Context(), authorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) deleteAuthor(writer http.ResponseWriter, request *http.Request, authorID int64) {
	if err := handler.service.DeleteAuthor(request.Context(), authorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
