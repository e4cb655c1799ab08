package model

import "time"

type Category struct {
	ID          int64
	Title       string
	Description string
	Slug        string
	IsPublished bool
	CreatedAt   time.Time
}

type Location struct {
	ID          int64
	Name        string
	IsPublished bool
	CreatedAt   time.Time
}
