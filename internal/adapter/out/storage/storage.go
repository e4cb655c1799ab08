package storage

import (
	"time"

	"blogicum/internal/model"
)

// PostFilter describes which posts a query should return. The zero value
// matches every post; each With* method adds one independent predicate.
type PostFilter struct {
	CategoryPublished bool
	Published         bool
	PublishedBefore   *time.Time
	CategoryID        *int64
	AuthorID          *int64
}

// Available is the filter for posts visible to general viewers.
func Available(now time.Time) PostFilter {
	return PostFilter{}.
		WithCategoryPublished().
		WithPublished().
		WithPublishedUpTo(now)
}

func (f PostFilter) WithCategoryPublished() PostFilter {
	f.CategoryPublished = true
	return f
}

func (f PostFilter) WithPublished() PostFilter {
	f.Published = true
	return f
}

func (f PostFilter) WithPublishedUpTo(t time.Time) PostFilter {
	f.PublishedBefore = &t
	return f
}

func (f PostFilter) WithCategory(categoryID int64) PostFilter {
	f.CategoryID = &categoryID
	return f
}

func (f PostFilter) WithAuthor(authorID int64) PostFilter {
	f.AuthorID = &authorID
	return f
}

// Match evaluates the filter against a post whose Category has been loaded.
func (f PostFilter) Match(p model.Post) bool {
	if f.CategoryPublished && !p.Category.IsPublished {
		return false
	}
	if f.Published && !p.IsPublished {
		return false
	}
	if f.PublishedBefore != nil && p.PubDate.After(*f.PublishedBefore) {
		return false
	}
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
		return false
	}
	return true
}

type Order int

const (
	OrderPubDateDesc Order = iota
	OrderCreatedAtDesc
)

// PostQuery is a filter plus the ordering and window the caller wants.
type PostQuery struct {
	Filter           PostFilter
	Order            Order
	Limit            int
	Offset           int
	WithCommentCount bool
}
