package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/pkg/tableinfo"
)

type (
	categoryRow = model.Category
	locationRow = model.Location
)

func (s *Storage) CreateCategory(_ context.Context, in model.Category) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Slug == in.Slug {
			return model.Category{}, fmt.Errorf("slug %q: %w", in.Slug, service.ErrConflict)
		}
	}

	in.ID = s.nextID(tableinfo.CategoriesTableName)
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.categories[in.ID] = in
	return in, nil
}

func (s *Storage) GetCategoryByID(_ context.Context, categoryID int64) (model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[categoryID]
	if !ok {
		return model.Category{}, service.ErrNotFound
	}
	return c, nil
}

func (s *Storage) GetCategoryBySlug(_ context.Context, slug string) (model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return model.Category{}, service.ErrNotFound
}

func (s *Storage) GetCategories(_ context.Context) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Storage) CreateLocation(_ context.Context, in model.Location) (model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = s.nextID(tableinfo.LocationsTableName)
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.locations[in.ID] = in
	return in, nil
}

func (s *Storage) GetLocationByID(_ context.Context, locationID int64) (model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.locations[locationID]
	if !ok {
		return model.Location{}, service.ErrNotFound
	}
	return l, nil
}

func (s *Storage) GetLocations(_ context.Context) ([]model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Location, 0, len(s.locations))
	for _, l := range s.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
