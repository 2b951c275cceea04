// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notice

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blablabook/internal/platform/ctxutil"
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
	router.Get("/book/{bookID}", handler.listBookNotices)
	router.Get("/{id}", handler.getNotice)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.listMyNotices)
		protected.Post("/", handler.createNotice)
		protected.Patch("/{id}", handler.updateNotice)
		protected.Delete("/{id}", handler.deleteNotice)
	})
}

func (handler *Handler) createNotice(writer http.ResponseWriter, request *http.Request) {
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

	notice, err := handler.service.CreateNotice(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, notice)
}

func (handler *Handler) getNotice(writer http.ResponseWriter, request *http.Request) {
	noticeID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	notice, err := handler.service.GetNotice(request.Context(), noticeID, viewerID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, notice)
}

func (handler *Handler) updateNotice(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	noticeID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	notice, err := handler.service.UpdateNotice(request.Context(), noticeID, userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, notice)
}

func (handler *Handler) deleteNotice(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	noticeID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteNotice(request.Context(), noticeID, claims.UserID, claims.IsAdmin()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listBookNotices(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.ID(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	notices, total, err := handler.service.ListBookNotices(request.Context(), bookID, viewerID(request), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, notices, paginationParams.Meta(total))
}

func (handler *Handler) listMyNotices(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	notices, total, err := handler.service.ListUserNotices(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, notices, paginationParams.Meta(total))
}

// viewerID is the caller's id, or zero when anonymous.
func viewerID(request *http.Request) int64 {
	id, _ := ctxutil.UserID(request.Context())
	return id
}
