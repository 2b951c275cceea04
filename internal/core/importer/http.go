// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blablabook/internal/platform/apperr"
	"github.com/taibuivan/blablabook/internal/platform/constants"
	"github.com/taibuivan/blablabook/internal/platform/middleware"
	requestutil "github.com/taibuivan/blablabook/internal/platform/request"
	"github.com/taibuivan/blablabook/internal/platform/respond"
	"github.com/taibuivan/blablabook/internal/platform/sec"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the import endpoints under /books.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/external/search", handler.searchExternal)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/import", handler.importBook)
		protected.Delete("/{id}/import", handler.rollbackImport)
	})
}

// RegisterAdminRoutes mounts maintenance endpoints under /admin.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/imports/cleanup", handler.cleanup)
}

type importRequest struct {
	OpenLibraryKey string     `json:"open_library_key"`
	Action         ActionType `json:"action"`
}

func (handler *Handler) importBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input importRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	preparation, err := handler.engine.PrepareBookForAction(request.Context(), input.OpenLibraryKey, userID, input.Action)
	if errors.Is(err, ErrImportFailed) {
		err = apperr.ImportUnavailable(input.OpenLibraryKey, err)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if preparation.WasImported {
		respond.Created(writer, preparation)
		return
	}
	respond.OK(writer, preparation)
}

func (handler *Handler) rollbackImport(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.engine.RollbackImport(request.Context(), bookID, claims.UserID, claims.IsAdmin())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"rolled_back": deleted})
}

func (handler *Handler) searchExternal(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get("q")
	limit := requestutil.QueryInt(request, "limit", constants.ExternalSearchLimit)

	result, err := handler.engine.SearchExternal(request.Context(), query, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) cleanup(writer http.ResponseWriter, request *http.Request) {
	minutes := requestutil.QueryInt(request, "older_than_minutes", constants.DefaultSweepMaxAgeMinutes)

	deleted, err := handler.engine.CleanupTemporaryImports(request.Context(), minutes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int64{"deleted": deleted})
}
