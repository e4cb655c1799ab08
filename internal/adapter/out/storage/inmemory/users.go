package inmemory

import (
	"context"
	"fmt"
	"time"

	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/pkg/tableinfo"
)

type userRow = model.User

func (s *Storage) CreateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(in.Username, 0) {
		return model.User{}, fmt.Errorf("username %q: %w", in.Username, service.ErrConflict)
	}

	in.ID = s.nextID(tableinfo.UsersTableName)
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.users[in.ID] = in
	return in, nil
}

func (s *Storage) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return u, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, service.ErrNotFound
}

func (s *Storage) UpdateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[in.ID]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	if s.usernameTaken(in.Username, in.ID) {
		return model.User{}, fmt.Errorf("username %q: %w", in.Username, service.ErrConflict)
	}

	u.Username = in.Username
	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	s.users[u.ID] = u
	return u, nil
}

// usernameTaken must be called with mu held.
func (s *Storage) usernameTaken(username string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}
