package service

import (
	"context"
	"io"
	"strings"

	"lenspost/internal/app/authz"
	"lenspost/internal/common"
	"lenspost/internal/domain/model"
	"lenspost/internal/domain/repository"
	"lenspost/internal/platform/storage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// PostService coordinates the post lifecycle: every mutation loads the
// target, authorizes, mutates, runs cascades, and returns the
// re-fetched state with the owner embedded.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	media       storage.MediaStore
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	media storage.MediaStore,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		media:       media,
	}
}

type CreatePostRequest struct {
	Title       string
	Description string
	Category    string
	Image       io.Reader
	ImageName   string
}

type UpdatePostRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

func (s *PostService) Create(ctx context.Context, actor authz.Actor, req CreatePostRequest) (*model.Post, error) {
	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(req.Description) == "" {
		fields["description"] = "is required"
	}
	if strings.TrimSpace(req.Category) == "" {
		fields["category"] = "is required"
	}
	if req.Image == nil {
		fields["image"] = "no image provided"
	}
	if len(fields) > 0 {
		return nil, &common.ValidationError{Fields: fields}
	}

	if err := decisionErr(authz.Authorize(actor, authz.ActionCreate, authz.Resource{Kind: authz.KindPost})); err != nil {
		return nil, err
	}

	ref, err := s.media.Put(ctx, req.ImageName, req.Image)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:          uuid.NewString(),
		OwnerID:     actor.ID,
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Category:    req.Category,
		Image:       ref,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		// Don't leave the uploaded binary orphaned.
		plan := &CascadePlan{}
		plan.add(s.mediaStep(ref))
		plan.Execute(ctx)
		return nil, err
	}

	return s.Get(ctx, post.ID)
}

func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Likes, err = s.likeRepo.Members(ctx, post.ID); err != nil {
		return nil, err
	}
	if post.Comments, err = s.commentRepo.FindByPost(ctx, post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, filter repository.PostFilter) ([]*model.Post, error) {
	posts, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		if post.Likes, err = s.likeRepo.Members(ctx, post.ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *PostService) Update(ctx context.Context, actor authz.Actor, id string, req UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := authz.Authorize(actor, authz.ActionUpdate, authz.Resource{
		Kind: authz.KindPost, ID: post.ID, OwnerID: post.OwnerID,
	})
	if err := decisionErr(decision); err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
		post.Slug = slug.Make(post.Title)
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Category != nil {
		post.Category = *req.Category
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.Get(ctx, post.ID)
}

// UpdateImage replaces the post's image, removing the previous binary
// so replacement never leaks the old file.
func (s *PostService) UpdateImage(ctx context.Context, actor authz.Actor, id string, image io.Reader, name string) (*model.Post, error) {
	if image == nil {
		return nil, &common.ValidationError{Fields: map[string]string{"image": "no image provided"}}
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := authz.Authorize(actor, authz.ActionUpdate, authz.Resource{
		Kind: authz.KindPost, ID: post.ID, OwnerID: post.OwnerID,
	})
	if err := decisionErr(decision); err != nil {
		return nil, err
	}

	ref, err := s.media.Put(ctx, name, image)
	if err != nil {
		return nil, err
	}

	oldRef := post.Image
	post.Image = ref
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if oldRef != "" {
		plan := &CascadePlan{}
		plan.add(s.mediaStep(oldRef))
		plan.Execute(ctx)
	}
	return s.Get(ctx, post.ID)
}

func (s *PostService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{
		Kind: authz.KindPost, ID: post.ID, OwnerID: post.OwnerID,
	})
	if err := decisionErr(decision); err != nil {
		return err
	}

	return s.deletePlan(post).Execute(ctx)
}

// deletePlan is the ordered cascade for removing one post: dependent
// comments first, then the liker set and image binary (best-effort),
// then the record itself.
func (s *PostService) deletePlan(post *model.Post) *CascadePlan {
	plan := &CascadePlan{}
	plan.add(CascadeStep{
		Name: "comments:by-post",
		Run: func(ctx context.Context) error {
			return s.commentRepo.DeleteByPost(ctx, post.ID)
		},
	})
	plan.add(CascadeStep{
		Name:       "likes:set",
		BestEffort: true,
		Run: func(ctx context.Context) error {
			return s.likeRepo.DeleteSet(ctx, post.ID)
		},
	})
	if post.Image != "" {
		plan.add(s.mediaStep(post.Image))
	}
	plan.add(CascadeStep{
		Name: "post:record",
		Run: func(ctx context.Context) error {
			return s.postRepo.Delete(ctx, post.ID)
		},
	})
	return plan
}

func (s *PostService) mediaStep(ref string) CascadeStep {
	return CascadeStep{
		Name:       "media:" + ref,
		BestEffort: true,
		Run: func(ctx context.Context) error {
			return s.media.Delete(ctx, ref)
		},
	}
}

// ToggleLike flips the actor's membership in the post's liker set and
// returns the post with the refreshed set.
func (s *PostService) ToggleLike(ctx context.Context, actor authz.Actor, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := authz.Authorize(actor, authz.ActionLikeToggle, authz.Resource{
		Kind: authz.KindPost, ID: post.ID, OwnerID: post.OwnerID,
	})
	if err := decisionErr(decision); err != nil {
		return nil, err
	}

	if _, err := s.likeRepo.Toggle(ctx, post.ID, actor.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, post.ID)
}
