package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
)

// SQLResolver resolves principals from the relational users table. Secrets
// are verified against the stored Argon2id hash; the hashing primitive is
// never reimplemented here.
type SQLResolver struct {
	userRepo repository.IUserRepository
}

func NewSQLResolver(userRepo repository.IUserRepository) *SQLResolver {
	return &SQLResolver{userRepo: userRepo}
}

// AuthenticateByCredential looks the user up by exact email match and checks
// the password hash. Unknown email and wrong password are logged apart but
// collapse into ErrInvalidCredential externally, so responses cannot be used
// to enumerate accounts.
func (r *SQLResolver) AuthenticateByCredential(ctx context.Context, loginID, secret string) (*model.Principal, error) {
	user, err := r.userRepo.GetUserByEmail(ctx, loginID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("email", loginID).Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("%w: %v", ErrResolverUnavailable, err)
	}

	if !CheckPasswordHash(secret, user.Password) {
		logger.Log.WithField("user_id", user.ID).Warn("Login attempt with wrong password")
		return nil, ErrInvalidCredential
	}

	return model.FilterUserRecord(user), nil
}

// FetchByID confirms the principal still exists and returns its view.
func (r *SQLResolver) FetchByID(ctx context.Context, principalID string) (*model.Principal, error) {
	user, err := r.userRepo.GetUserByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrResolverUnavailable, err)
	}
	return model.FilterUserRecord(user), nil
}
