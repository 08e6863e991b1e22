package service

import (
	"context"
	"errors"
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
	"strings"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("user with that email already exists")

// UserService handles user account management for the SQL identity backend.
// The directory backend is read-only from this service's point of view;
// directory writes belong to the directory's own tooling.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterUser hashes the password and stores a new user record. Emails are
// normalized to lower case before the uniqueness check.
func (s *UserService) RegisterUser(ctx context.Context, email, password string) (*model.Principal, error) {
	email = strings.ToLower(email)

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolverUnavailable, err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		Password: hashedPassword,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolverUnavailable, err)
	}

	logger.Log.WithField("user_id", user.ID).Info("New user registered")
	return model.FilterUserRecord(user), nil
}
