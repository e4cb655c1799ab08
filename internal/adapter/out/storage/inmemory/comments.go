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

type commentRow = model.Comment

func (s *Storage) CreateComment(_ context.Context, in model.Comment) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[in.PostID]; !ok {
		return model.Comment{}, fmt.Errorf("post %d: %w", in.PostID, service.ErrNotFound)
	}
	if _, ok := s.users[in.AuthorID]; !ok {
		return model.Comment{}, fmt.Errorf("author %d: %w", in.AuthorID, service.ErrNotFound)
	}

	c := model.Comment{
		ID:        s.nextID(tableinfo.CommentsTableName),
		PostID:    in.PostID,
		AuthorID:  in.AuthorID,
		Text:      in.Text,
		CreatedAt: time.Now(),
	}
	s.comments[c.ID] = c
	return s.hydrateComment(c), nil
}

func (s *Storage) GetCommentByID(_ context.Context, commentID int64) (model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[commentID]
	if !ok {
		return model.Comment{}, service.ErrNotFound
	}
	return s.hydrateComment(c), nil
}

// GetCommentsByPost returns comments oldest first.
func (s *Storage) GetCommentsByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, s.hydrateComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Storage) UpdateComment(_ context.Context, in model.Comment) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[in.ID]
	if !ok {
		return model.Comment{}, service.ErrNotFound
	}
	c.Text = in.Text
	s.comments[c.ID] = c
	return s.hydrateComment(c), nil
}

func (s *Storage) DeleteComment(_ context.Context, commentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[commentID]; !ok {
		return service.ErrNotFound
	}
	delete(s.comments, commentID)
	return nil
}

func (s *Storage) DeleteCommentsByPost(_ context.Context, postID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteCommentsByPost(postID), nil
}

// deleteCommentsByPost must be called with mu held.
func (s *Storage) deleteCommentsByPost(postID int64) int64 {
	var n int64
	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
			n++
		}
	}
	return n
}

// commentCounts aggregates comments per post. Must be called with mu held.
func (s *Storage) commentCounts() map[int64]int {
	counts := make(map[int64]int, len(s.posts))
	for _, c := range s.comments {
		counts[c.PostID]++
	}
	return counts
}

func (s *Storage) hydrateComment(c model.Comment) model.Comment {
	if u, ok := s.users[c.AuthorID]; ok {
		c.Author = u.Username
	}
	return c
}
