package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogicum/internal/model"
)

// CategoryService manages categories and locations. Creating either is
// reserved for superusers.
type CategoryService struct {
	categoryStorage CategoryStorage
	locationStorage LocationStorage
}

func NewCategoryService(categoryStorage CategoryStorage, locationStorage LocationStorage) *CategoryService {
	return &CategoryService{
		categoryStorage: categoryStorage,
		locationStorage: locationStorage,
	}
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryStorage.GetCategories(ctx)
}

func (s *CategoryService) GetLocations(ctx context.Context) ([]model.Location, error) {
	return s.locationStorage.GetLocations(ctx)
}

func (s *CategoryService) CreateCategory(ctx context.Context, actor model.User, req CategoryRequest) (model.Category, error) {
	if !actor.IsSuperuser {
		return model.Category{}, fmt.Errorf("create category: %w", ErrForbidden)
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	if err := validateRequest(req); err != nil {
		return model.Category{}, err
	}

	category, err := s.categoryStorage.CreateCategory(ctx, model.Category{
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		IsPublished: req.IsPublished,
	})
	if errors.Is(err, ErrConflict) {
		return model.Category{}, newFieldError("slug", "Category with this slug already exists.")
	}
	return category, err
}

func (s *CategoryService) CreateLocation(ctx context.Context, actor model.User, req LocationRequest) (model.Location, error) {
	if !actor.IsSuperuser {
		return model.Location{}, fmt.Errorf("create location: %w", ErrForbidden)
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return model.Location{}, err
	}

	return s.locationStorage.CreateLocation(ctx, model.Location{
		Name:        req.Name,
		IsPublished: req.IsPublished,
	})
}
