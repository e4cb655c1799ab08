package pagination

import (
	"strconv"
	"strings"
)

const DefaultPageSize = 10

type Config struct {
	PageSize int
}

func DefaultConfig() Config {
	return Config{PageSize: DefaultPageSize}
}

// Page is one window of an ordered collection together with its position.
type Page[T any] struct {
	Items       []T
	Number      int
	NumPages    int
	Total       int
	PageSize    int
	HasPrevious bool
	HasNext     bool
}

func (p Page[T]) Offset() int {
	return (p.Number - 1) * p.PageSize
}

func (p Page[T]) Limit() int {
	return p.PageSize
}

func (p Page[T]) PreviousNumber() int {
	if !p.HasPrevious {
		return p.Number
	}
	return p.Number - 1
}

func (p Page[T]) NextNumber() int {
	if !p.HasNext {
		return p.Number
	}
	return p.Number + 1
}

type Paginator struct {
	pageSize int
}

func NewPaginator(cfg Config) *Paginator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Paginator{pageSize: cfg.PageSize}
}

func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Resolve turns an untrusted page number into a valid page over total items.
// Missing or malformed numbers give the first page, numbers past the end give
// the last one. An empty collection still has one (empty) page.
func Resolve[T any](p *Paginator, raw string, total int) Page[T] {
	if total < 0 {
		total = 0
	}
	numPages := (total + p.pageSize - 1) / p.pageSize
	if numPages < 1 {
		numPages = 1
	}

	number := ParseNumber(raw)
	if number > numPages {
		number = numPages
	}

	return Page[T]{
		Number:      number,
		NumPages:    numPages,
		Total:       total,
		PageSize:    p.pageSize,
		HasPrevious: number > 1,
		HasNext:     number < numPages,
	}
}

// Paginate slices an already ordered in-memory collection.
func Paginate[T any](p *Paginator, items []T, raw string) Page[T] {
	page := Resolve[T](p, raw, len(items))
	start := min(page.Offset(), len(items))
	end := min(start+page.PageSize, len(items))
	page.Items = items[start:end]
	return page
}

// ParseNumber returns the 1-based page number in raw, or 1 if there is none.
func ParseNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	if raw == "last" {
		return int(^uint(0) >> 1)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
