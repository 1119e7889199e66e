package handler

import (
	"encoding/json"
	"net/http"

	"lenspost/internal/api/middleware"
	"lenspost/internal/app/service"
	"lenspost/internal/common"

	"github.com/go-chi/chi/v5"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/post/{postID}", h.listByPost) // GET /api/v1/comments/post/{id}

	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator)
		authRouter.Post("/", h.createComment)
		authRouter.Get("/", h.listAll) // admin only, gated by the authz engine
		authRouter.Put("/{commentID}", h.updateComment)
		authRouter.Delete("/{commentID}", h.deleteComment)
	})
}

func (h *CommentHandler) listByPost(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListByPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) createComment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	comment, err := h.commentService.Create(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) listAll(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListAll(r.Context(), middleware.ActorFromContext(r.Context()))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) updateComment(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	comment, err := h.commentService.Update(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "commentID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.commentService.Delete(r.Context(), middleware.ActorFromContext(r.Context()), chi.URLParam(r, "commentID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "comment has been deleted"})
}
