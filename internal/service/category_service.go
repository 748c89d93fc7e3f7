package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

const (
	minCategoryNameLen = 2
	maxCategoryNameLen = 50
)

// CategoryService manages the category catalog posts can reference.
type CategoryService interface {
	Create(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService builds a CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if len(name) < minCategoryNameLen || len(name) > maxCategoryNameLen {
		return nil, apperrors.NewValidationError(map[string]string{
			"name": fmt.Sprintf("must be between %d and %d characters", minCategoryNameLen, maxCategoryNameLen),
		})
	}

	if _, err := s.categoryRepo.FindByName(ctx, name); err == nil {
		return nil, apperrors.NewValidationError(map[string]string{
			"name": "already exists",
		})
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check category name: %w", err)
	}

	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
