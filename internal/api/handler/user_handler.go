package handler

import (
	"encoding/json"
	"net/http"

	"lenspost/internal/api/middleware"
	"lenspost/internal/app/service"
	"lenspost/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{userID}", h.getUser) // public profile

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator)
		authRouter.Get("/", h.listUsers) // admin only, gated by the authz engine
		authRouter.Post("/profile-photo", h.uploadPhoto)
		authRouter.Put("/{userID}", h.updateUser)
		authRouter.Delete("/{userID}", h.deleteUser)
	})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), middleware.ActorFromContext(r.Context()))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	image, name := formImage(r)
	user, err := h.userService.UploadPhoto(r.Context(), middleware.ActorFromContext(r.Context()), image, name)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.Update(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "userID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.userService.Delete(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
