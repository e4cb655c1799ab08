package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"blogicum/internal/adapter/out/storage"
	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/pkg/tableinfo"
)

type postRow = model.Post

func (s *Storage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[in.CategoryID]; !ok {
		return model.Post{}, fmt.Errorf("category %d: %w", in.CategoryID, service.ErrNotFound)
	}
	if _, ok := s.users[in.AuthorID]; !ok {
		return model.Post{}, fmt.Errorf("author %d: %w", in.AuthorID, service.ErrNotFound)
	}

	in.ID = s.nextID(tableinfo.PostsTableName)
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	if in.PubDate.IsZero() {
		in.PubDate = in.CreatedAt
	}
	s.posts[in.ID] = stripPost(in)
	return s.hydratePost(s.posts[in.ID]), nil
}

func (s *Storage) UpdatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[in.ID]
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	if _, ok := s.categories[in.CategoryID]; !ok {
		return model.Post{}, fmt.Errorf("category %d: %w", in.CategoryID, service.ErrNotFound)
	}

	p.Title = in.Title
	p.Text = in.Text
	p.PubDate = in.PubDate
	p.IsPublished = in.IsPublished
	p.CategoryID = in.CategoryID
	p.LocationID = in.LocationID
	s.posts[p.ID] = p
	return s.hydratePost(p), nil
}

// DeletePost removes the post together with its comments.
func (s *Storage) DeletePost(_ context.Context, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return service.ErrNotFound
	}
	delete(s.posts, postID)
	s.deleteCommentsByPost(postID)
	return nil
}

func (s *Storage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.posts[postID]; ok {
		return s.hydratePost(p), nil
	}
	return model.Post{}, service.ErrNotFound
}

func (s *Storage) CountPosts(_ context.Context, filter storage.PostFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.posts {
		if filter.Match(s.hydratePost(p)) {
			n++
		}
	}
	return n, nil
}

func (s *Storage) GetPosts(_ context.Context, q storage.PostQuery) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		hp := s.hydratePost(p)
		if q.Filter.Match(hp) {
			matched = append(matched, hp)
		}
	}

	sort.Slice(matched, postLess(matched, q.Order))

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	if q.WithCommentCount {
		counts := s.commentCounts()
		for i := range matched {
			matched[i].CommentCount = counts[matched[i].ID]
		}
	}
	return matched, nil
}

func postLess(posts []model.Post, order storage.Order) func(i, j int) bool {
	key := func(p model.Post) time.Time { return p.PubDate }
	if order == storage.OrderCreatedAtDesc {
		key = func(p model.Post) time.Time { return p.CreatedAt }
	}
	return func(i, j int) bool {
		ki, kj := key(posts[i]), key(posts[j])
		if !ki.Equal(kj) {
			return ki.After(kj)
		}
		return posts[i].ID > posts[j].ID
	}
}

// hydratePost fills the joined read fields. Must be called with mu held.
func (s *Storage) hydratePost(p model.Post) model.Post {
	if u, ok := s.users[p.AuthorID]; ok {
		p.Author = u.Username
	}
	if c, ok := s.categories[p.CategoryID]; ok {
		p.Category = c
	}
	if p.LocationID != nil {
		if l, ok := s.locations[*p.LocationID]; ok {
			p.LocationName = l.Name
		}
	}
	return p
}

func stripPost(p model.Post) model.Post {
	p.Author = ""
	p.Category = model.Category{}
	p.LocationName = ""
	p.CommentCount = 0
	if p.LocationID != nil {
		id := *p.LocationID
		p.LocationID = &id
	}
	return p
}
