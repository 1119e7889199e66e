package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"lenspost/internal/app/authz"
	"lenspost/internal/common"
	"lenspost/internal/common/security"
	"lenspost/internal/domain/model"
	"lenspost/internal/domain/repository"
	"lenspost/internal/platform/storage"
)

// UserService coordinates the profile lifecycle, including the full
// account-deletion cascade across posts, comments and media.
type UserService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	media       storage.MediaStore
	posts       *PostService // supplies the per-post cascade
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	media storage.MediaStore,
	posts *PostService,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		media:       media,
		posts:       posts,
	}
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

func (s *UserService) List(ctx context.Context, actor authz.Actor) ([]*model.User, error) {
	if err := decisionErr(authz.Authorize(actor, authz.ActionAdminList, authz.Resource{Kind: authz.KindUser})); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, actor authz.Actor, id string, req UpdateUserRequest) (*model.User, error) {
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		return nil, &common.ValidationError{Fields: map[string]string{"username": "must not be empty"}}
	}
	if req.Password != nil && len(*req.Password) < 8 {
		return nil, &common.ValidationError{Fields: map[string]string{"password": "must be at least 8 characters"}}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := authz.Authorize(actor, authz.ActionUpdate, authz.Resource{
		Kind: authz.KindUser, ID: user.ID, OwnerID: user.ID,
	})
	if err := decisionErr(decision); err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Password != nil {
		hashed, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, user.ID)
}

// UploadPhoto replaces the actor's own profile photo. The previous
// binary is removed (best-effort) so replacement never leaks a file.
func (s *UserService) UploadPhoto(ctx context.Context, actor authz.Actor, image io.Reader, name string) (*model.User, error) {
	if image == nil {
		return nil, &common.ValidationError{Fields: map[string]string{"image": "no image provided"}}
	}

	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	decision := authz.Authorize(actor, authz.ActionUpdate, authz.Resource{
		Kind: authz.KindUser, ID: user.ID, OwnerID: user.ID,
	})
	if err := decisionErr(decision); err != nil {
		return nil, err
	}

	ref, err := s.media.Put(ctx, name, image)
	if err != nil {
		return nil, err
	}

	oldRef := user.ProfilePhoto
	user.ProfilePhoto = ref
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if oldRef != "" {
		plan := &CascadePlan{}
		plan.add(s.mediaStep(oldRef))
		plan.Execute(ctx)
	}
	return s.userRepo.FindByID(ctx, user.ID)
}

func (s *UserService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	decision := authz.Authorize(actor, authz.ActionDelete, authz.Resource{
		Kind: authz.KindUser, ID: user.ID, OwnerID: user.ID,
	})
	if err := decisionErr(decision); err != nil {
		return err
	}

	plan, err := s.deletePlan(ctx, user)
	if err != nil {
		return err
	}
	return plan.Execute(ctx)
}

// deletePlan removes everything the account owns: each owned post with
// its full post cascade, then comments the user authored on any post,
// the profile photo binary, and finally the user record.
func (s *UserService) deletePlan(ctx context.Context, user *model.User) (*CascadePlan, error) {
	posts, err := s.postRepo.FindByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	plan := &CascadePlan{}
	for _, post := range posts {
		plan.add(s.posts.deletePlan(post).Steps...)
	}
	plan.add(CascadeStep{
		Name: "comments:by-owner",
		Run: func(ctx context.Context) error {
			return s.commentRepo.DeleteByOwner(ctx, user.ID)
		},
	})
	if user.ProfilePhoto != "" {
		plan.add(s.mediaStep(user.ProfilePhoto))
	}
	plan.add(CascadeStep{
		Name: "user:record",
		Run: func(ctx context.Context) error {
			return s.userRepo.Delete(ctx, user.ID)
		},
	})
	return plan, nil
}

func (s *UserService) mediaStep(ref string) CascadeStep {
	return CascadeStep{
		Name:       "media:" + ref,
		BestEffort: true,
		Run: func(ctx context.Context) error {
			return s.media.Delete(ctx, ref)
		},
	}
}
