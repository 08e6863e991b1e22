package service

import (
	"context"
	"errors"
	"go-auth-api/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores a hashed password, never the plain one", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("EmailExists", mock.Anything, "new@example.com").Return(false, nil).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com" &&
				u.Password != "password123" &&
				CheckPasswordHash("password123", u.Password)
		})).Return(nil).Once()

		_, err := NewUserService(repo).RegisterUser(ctx, "new@example.com", "password123")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("email is normalized to lower case", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("EmailExists", mock.Anything, "mixed@example.com").Return(false, nil).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "mixed@example.com"
		})).Return(nil).Once()

		_, err := NewUserService(repo).RegisterUser(ctx, "MiXeD@Example.COM", "password123")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("EmailExists", mock.Anything, "taken@example.com").Return(true, nil).Once()

		_, err := NewUserService(repo).RegisterUser(ctx, "taken@example.com", "password123")

		assert.ErrorIs(t, err, ErrEmailTaken)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("repository failure is operational", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("EmailExists", mock.Anything, "new@example.com").
			Return(false, errors.New("db down")).Once()

		_, err := NewUserService(repo).RegisterUser(ctx, "new@example.com", "password123")

		assert.ErrorIs(t, err, ErrResolverUnavailable)
	})
}
