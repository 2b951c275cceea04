// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blablabook/internal/platform/middleware"
	requestutil "github.com/taibuivan/blablabook/internal/platform/request"
	"github.com/taibuivan/blablabook/internal/platform/respond"
)

// Handler serves the /users endpoints.
type Handler struct {
	accountService *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes mounts the account endpoints.
//
// # Endpoints
//   - GET    /{id}         : Public profile of a reader.
//   - GET    /me           : Caller's full profile.
//   - PATCH  /me           : Changes username or email.
//   - PUT    /me/password  : Changes the password.
//   - DELETE /me           : Deletes the caller's account.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Get("/me", handler.getMe)
		protected.Patch("/me", handler.updateMe)
		protected.Put("/me/password", handler.changePassword)
		protected.Delete("/me", handler.deleteMe)
	})

	router.Get("/{id}", handler.getProfile)
}

func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetPublicProfile(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
updateMe patches the caller's identity.

PATCH /api/v1/users/me

Response:
  - 200: User: Updated profile
  - 400: Validation failure
  - 409: Username or email already in use
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateProfileInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ChangePasswordInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), userID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input DeleteAccountInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
