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

// CategoryService manages the admin-curated category list.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

type CreateCategoryRequest struct {
	Title string `json:"title"`
}

func (s *CategoryService) Create(ctx context.Context, actor authz.Actor, req CreateCategoryRequest) (*model.Category, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &common.ValidationError{Fields: map[string]string{"title": "is required"}}
	}

	if err := decisionErr(authz.Authorize(actor, authz.ActionAdminList, authz.Resource{Kind: authz.KindCategory})); err != nil {
		return nil, err
	}

	category := &model.Category{
		ID:    uuid.NewString(),
		Title: req.Title,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return s.categoryRepo.FindByID(ctx, category.ID)
}

func (s *CategoryService) List(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := decisionErr(authz.Authorize(actor, authz.ActionAdminList, authz.Resource{Kind: authz.KindCategory})); err != nil {
		return err
	}

	return s.categoryRepo.Delete(ctx, category.ID)
}
