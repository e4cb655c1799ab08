package model

import "time"

type Post struct {
	ID          int64
	Title       string
	Text        string
	PubDate     time.Time
	IsPublished bool
	CategoryID  int64
	LocationID  *int64
	AuthorID    int64
	CreatedAt   time.Time

	// Filled by read queries only.
	Author       string
	Category     Category
	LocationName string
	CommentCount int
}

// IsAvailable reports whether the post may be shown to anyone, not only its author.
func (p Post) IsAvailable(now time.Time) bool {
	return p.Category.IsPublished && p.IsPublished && !p.PubDate.After(now)
}
