package service

import (
	"context"
	"strings"

	"lenspost/internal/app/authz"
	"lenspost/internal/common"
	"lenspost/internal/domain/model"
	"lenspost/internal/domain/repository"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

type CreateCommentRequest struct {
	PostID string `json:"post_id"`
	Text   string `json:"text"`
}

type UpdateCommentRequest struct {
	Text string `json:"text"`
}

func (s *CommentService) Create(ctx context.Context, actor authz.Actor, req CreateCommentRequest) (*model.Comment, error) {
	fields := map[string]string{}
	if req.PostID == "" {
		fields["post_id"] = "is required"
	}
	if strings.TrimSpace(req.Text) == "" {
		fields["text"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &common.ValidationError{Fields: fields}
	}

	// Parent post must resolve before anything else.
	if _, err := s.postRepo.FindByID(ctx, req.PostID); err != nil {
		return nil, err
	}

	if err := decisionErr(authz.Authorize(actor, authz.ActionCreate, authz.Resource{Kind: authz.KindComment})); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:      uuid.NewString(),
		PostID:  req.PostID,
		OwnerID: actor.ID,
		Text:    req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByID(ctx, comment.ID)
}

func (s *CommentService) ListAll(ctx context.Context, actor authz.Actor) ([]*model.Comment, error) {
	if err := decisionErr(authz.Authorize(actor, authz.ActionAdminList, authz.Resource{Kind: authz.KindComment})); err != nil {
		return nil, err
	}
	return s.commentRepo.List(ctx)
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByPost(ctx, postID)
}

func (s *CommentService) Update(ctx context.Context, actor authz.Actor, id string, req UpdateCommentRequest) (*model.Comment, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &common.ValidationError{Fields: map[string]string{"text": "is required"}}
	}

	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := authz.Authorize(actor, authz.ActionUpdate, authz.Resource{
		Kind: authz.KindComment, ID: comment.ID, OwnerID: comment.OwnerID,
	})
	if err := decisionErr(decision); err != nil {
		return nil, err
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByID(ctx, comment.ID)
}

func (s *CommentService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{
		Kind: authz.KindComment, ID: comment.ID, OwnerID: comment.OwnerID,
	})
	if err := decisionErr(decision); err != nil {
		return err
	}

	return s.commentRepo.Delete(ctx, comment.ID)
}
