package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogicum/internal/model"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userStorage UserStorage
	hashCost    int
}

func NewUserService(userStorage UserStorage) *UserService {
	return &UserService{
		userStorage: userStorage,
		hashCost:    bcrypt.DefaultCost,
	}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userStorage.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	})
	if errors.Is(err, ErrConflict) {
		return model.User{}, newFieldError("username", "A user with that username already exists.")
	}
	return user, err
}

// Authenticate returns the user whose credentials match, or ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.userStorage.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, ErrUnauthorized
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, ErrNotFound
	}
	return s.userStorage.GetUserByID(ctx, userID)
}

// UpdateProfile changes the actor's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, actor model.User, req ProfileRequest) (model.User, error) {
	if actor.ID <= 0 {
		return model.User{}, ErrUnauthorized
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		return model.User{}, err
	}

	user, err := s.userStorage.GetUserByID(ctx, actor.ID)
	if err != nil {
		return model.User{}, err
	}
	user.Username = req.Username
	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	updated, err := s.userStorage.UpdateUser(ctx, user)
	if errors.Is(err, ErrConflict) {
		return model.User{}, newFieldError("username", "A user with that username already exists.")
	}
	return updated, err
}

// EnsureSuperuser creates a superuser account unless the username is taken.
func (s *UserService) EnsureSuperuser(ctx context.Context, username, email, password string) (model.User, error) {
	existing, err := s.userStorage.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.userStorage.CreateUser(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsSuperuser:  true,
	})
}
