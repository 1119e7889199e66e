package handler

import (
	"encoding/json"
	"net/http"

	"lenspost/internal/api/middleware"
	"lenspost/internal/app/service"
	"lenspost/internal/common"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCategories)

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator)
		authRouter.Post("/", h.createCategory)
		authRouter.Delete("/{categoryID}", h.deleteCategory)
	})
}

func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	category, err := h.categoryService.Create(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	err := h.categoryService.Delete(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "categoryID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category has been deleted"})
}
