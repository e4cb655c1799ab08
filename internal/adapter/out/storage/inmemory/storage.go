package inmemory

import (
	"context"
	"sync"
)

// Storage keeps every table in process memory. It implements all storage
// interfaces of the service package and is safe for concurrent use.
type Storage struct {
	mu sync.RWMutex

	posts      map[int64]postRow
	comments   map[int64]commentRow
	categories map[int64]categoryRow
	locations  map[int64]locationRow
	users      map[int64]userRow

	lastID map[string]int64
}

func NewStorage() *Storage {
	return &Storage{
		posts:      make(map[int64]postRow),
		comments:   make(map[int64]commentRow),
		categories: make(map[int64]categoryRow),
		locations:  make(map[int64]locationRow),
		users:      make(map[int64]userRow),
		lastID:     make(map[string]int64),
	}
}

// nextID must be called with mu held.
func (s *Storage) nextID(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

// TxManager runs functions directly: every Storage call is already atomic and
// there is nothing to roll back to.
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
