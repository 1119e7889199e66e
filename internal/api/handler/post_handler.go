package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"lenspost/internal/api/middleware"
	"lenspost/internal/app/service"
	"lenspost/internal/common"
	"lenspost/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 8 << 20

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listPosts)          // GET /api/v1/posts
	r.Get("/{postID}", h.getPost)    // GET /api/v1/posts/{id}

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator)
		authRouter.Post("/", h.createPost)
		authRouter.Put("/{postID}", h.updatePost)
		authRouter.Put("/{postID}/image", h.updatePostImage)
		authRouter.Put("/{postID}/like", h.toggleLike)
		authRouter.Delete("/{postID}", h.deletePost)
	})
}

func (h *PostHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 0 || pageSize > 100 {
		pageSize = 20
	}

	filter := repository.PostFilter{
		Category: r.URL.Query().Get("category"),
		Page:     page,
		PageSize: pageSize,
	}
	posts, err := h.postService.List(r.Context(), filter)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.Get(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *PostHandler) createPost(w http.ResponseWriter, r *http.Request) {
	image, name := formImage(r)
	req := service.CreatePostRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Image:       image,
		ImageName:   name,
	}

	post, err := h.postService.Create(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) updatePost(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	post, err := h.postService.Update(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "postID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *PostHandler) updatePostImage(w http.ResponseWriter, r *http.Request) {
	image, name := formImage(r)
	post, err := h.postService.UpdateImage(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "postID"), image, name)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *PostHandler) toggleLike(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.ToggleLike(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "postID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, post)
}

func (h *PostHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	err := h.postService.Delete(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "postID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "post has been deleted successfully"})
}

// formImage pulls the uploaded file out of a multipart form. A missing
// file yields a nil reader; the service reports the validation error.
func formImage(r *http.Request) (io.Reader, string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, ""
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, ""
	}
	return file, header.Filename
}
