// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

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
	router.Get("/{id}", handler.getLibrary)
	router.Get("/{id}/entries", handler.listEntries)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Get("/", handler.listLibraries)
		protected.Post("/", handler.createLibrary)
		protected.Put("/{id}", handler.updateLibrary)
		protected.Delete("/{id}", handler.deleteLibrary)

		protected.Post("/{id}/entries", handler.addEntry)
		protected.Patch("/entries/{entryID}", handler.updateEntryStatus)
		protected.Delete("/entries/{entryID}", handler.removeEntry)
	})
}

// actor is the caller, or the zero Actor when anonymous.
func actor(request *http.Request) Actor {
	claims := requestutil.Claims(request)
	if claims == nil {
		return Actor{}
	}
	return Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin()}
}

func (handler *Handler) listLibraries(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	libraries, err := handler.service.ListLibraries(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, libraries)
}

func (handler *Handler) createLibrary(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input LibraryInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	library, err := handler.service.CreateLibrary(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, library)
}

func (handler *Handler) getLibrary(writer http.ResponseWriter, request *http.Request) {
	libraryID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	library, err := handler.service.GetLibrary(request.Context(), actor(request), libraryID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, library)
}

func (handler *Handler) updateLibrary(writer http.ResponseWriter, request *http.Request) {
	libraryID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input LibraryInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	library, err := handler.service.UpdateLibrary(request.Context(), actor(request), libraryID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, library)
}

func (handler *Handler) deleteLibrary(writer http.ResponseWriter, request *http.Request) {
	libraryID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteLibrary(request.Context(), actor(request), libraryID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	libraryID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	entries, total, err := handler.service.ListEntries(request.Context(), actor(request), libraryID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, entries, paginationParams.Meta(total))
}

func (handler *Handler) addEntry(writer http.ResponseWriter, request *http.Request) {
	libraryID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input EntryInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.AddToReadingList(request.Context(), actor(request), libraryID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, entry)
}

func (handler *Handler) updateEntryStatus(writer http.ResponseWriter, request *http.Request) {
	entryID, err := requestutil.ID(request, "entryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input StatusInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.UpdateEntryStatus(request.Context(), actor(request), entryID, input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

func (handler *Handler) removeEntry(writer http.ResponseWriter, request *http.Request) {
	entryID, err := requestutil.ID(request, "entryID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveEntry(request.Context(), actor(request), entryID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
