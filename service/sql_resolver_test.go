package service

import (
	"context"
	"database/sql"
	"errors"
	"go-auth-api/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func storedTestUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		ID:        "0b8f9c1e-0000-4000-8000-000000000002",
		Email:     "alice@example.com",
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSQLResolver_AuthenticateByCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns the principal view without the hash", func(t *testing.T) {
		repo := new(mockUserRepo)
		user := storedTestUser(t, "correct horse battery")
		repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(user, nil).Once()

		principal, err := NewSQLResolver(repo).AuthenticateByCredential(ctx, "alice@example.com", "correct horse battery")

		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.ID)
		assert.Equal(t, user.Email, principal.Email)
		repo.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		repo := new(mockUserRepo)
		user := storedTestUser(t, "correct horse battery")
		repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
			Return(nil, sql.ErrNoRows).Once()
		repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
			Return(user, nil).Once()

		resolver := NewSQLResolver(repo)
		_, errUnknown := resolver.AuthenticateByCredential(ctx, "nobody@example.com", "whatever")
		_, errWrongPw := resolver.AuthenticateByCredential(ctx, "alice@example.com", "wrong password")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredential)
		assert.ErrorIs(t, errWrongPw, ErrInvalidCredential)
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	})

	t.Run("backend failure is operational, not an auth failure", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
			Return(nil, errors.New("connection reset")).Once()

		_, err := NewSQLResolver(repo).AuthenticateByCredential(ctx, "alice@example.com", "secret")

		assert.ErrorIs(t, err, ErrResolverUnavailable)
		assert.NotErrorIs(t, err, ErrInvalidCredential)
	})
}

func TestSQLResolver_FetchByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(mockUserRepo)
		user := storedTestUser(t, "irrelevant")
		repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()

		principal, err := NewSQLResolver(repo).FetchByID(ctx, user.ID)

		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.ID)
	})

	t.Run("deleted user reports not found", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetUserByID", mock.Anything, "gone").Return(nil, sql.ErrNoRows).Once()

		_, err := NewSQLResolver(repo).FetchByID(ctx, "gone")

		assert.ErrorIs(t, err, ErrPrincipalNotFound)
	})

	t.Run("backend failure", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetUserByID", mock.Anything, "any").Return(nil, errors.New("timeout")).Once()

		_, err := NewSQLResolver(repo).FetchByID(ctx, "any")

		assert.ErrorIs(t, err, ErrResolverUnavailable)
	})
}
