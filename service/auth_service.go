package service

import (
	"context"
	"errors"
	"go-auth-api/logger"
	"go-auth-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// TokenConfig bundles the signing material and lifetimes for both token
// purposes. Keys are base64-encoded PEM RSA keys; the private halves are used
// for issuance, the public halves for verification.
type TokenConfig struct {
	AccessPrivateKey  string
	AccessPublicKey   string
	AccessTTL         time.Duration
	RefreshPrivateKey string
	RefreshPublicKey  string
	RefreshTTL        time.Duration
}

// AuthService orchestrates the three session flows: Login, Refresh and
// CheckSession. It is stateless between calls; the only shared state lives in
// the revocation ledger and the identity backend, both externally
// synchronized.
type AuthService struct {
	resolver       IIdentityResolver
	ledger         IRevocationLedger
	keys           TokenConfig
	backendTimeout time.Duration
}

// NewAuthService wires the session flows to an identity resolver and a
// revocation ledger. Which resolver variant is active is decided by the
// caller; the flows never branch on it.
func NewAuthService(resolver IIdentityResolver, ledger IRevocationLedger, keys TokenConfig, backendTimeout time.Duration) *AuthService {
	if backendTimeout <= 0 {
		backendTimeout = 5 * time.Second
	}
	return &AuthService{
		resolver:       resolver,
		ledger:         ledger,
		keys:           keys,
		backendTimeout: backendTimeout,
	}
}

// withTimeout bounds every backend call; a deadline hit surfaces as the
// corresponding *Unavailable error from the backend, never as "not found".
func (s *AuthService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.backendTimeout)
}

// Login authenticates the credential and mints a fresh access/refresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	authCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	principal, err := s.resolver.AuthenticateByCredential(authCtx, email, password)
	if err != nil {
		return nil, err
	}

	access, err := IssueToken(principal.ID, s.keys.AccessTTL, s.keys.AccessPrivateKey)
	if err != nil {
		return nil, err
	}
	refresh, err := IssueToken(principal.ID, s.keys.RefreshTTL, s.keys.RefreshPrivateKey)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("subject", principal.ID).Info("Login succeeded, token pair issued")
	return &model.TokenPair{AccessToken: access.Token, RefreshToken: refresh.Token}, nil
}

// Refresh trades a valid, not-yet-consumed refresh token for a new pair and
// records the old token's instance identifier in the ledger.
//
// Ordering matters: the ledger is read before the principal lookup, the new
// access token is minted before the ledger write, and the ledger write
// happens before the new refresh token is minted. A failed ledger write
// degrades replay protection but never blocks the user; it is surfaced to
// operational logging only.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrEmptyRefreshToken
	}

	claims, err := VerifyToken(refreshToken, s.keys.RefreshPublicKey)
	if err != nil {
		logger.Log.WithError(err).Warn("Refresh token failed verification")
		return nil, ErrInvalidRefreshToken
	}

	ledgerCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	consumed, err := s.ledger.IsConsumed(ledgerCtx, claims.TokenUUID)
	if err != nil {
		return nil, err
	}
	if consumed {
		logger.Log.WithFields(logrus.Fields{
			"token_uuid": claims.TokenUUID,
			"subject":    claims.Subject,
		}).Warn("Replay of an already consumed refresh token")
		return nil, ErrRefreshAlreadyUsed
	}

	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	principal, err := s.resolver.FetchByID(fetchCtx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			logger.Log.WithField("subject", claims.Subject).Warn("Refresh for a deleted principal")
			return nil, ErrPrincipalGone
		}
		return nil, err
	}

	access, err := IssueToken(principal.ID, s.keys.AccessTTL, s.keys.AccessPrivateKey)
	if err != nil {
		return nil, err
	}

	// The ledger entry lives only as long as an access token; after that the
	// same refresh token becomes presentable again until its own expiry.
	markCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.ledger.MarkConsumed(markCtx, claims.TokenUUID, principal.ID, s.keys.AccessTTL); err != nil {
		logger.Log.WithError(err).WithField("token_uuid", claims.TokenUUID).
			Error("Ledger write failed during refresh; replay protection degraded for this token")
	}

	refresh, err := IssueToken(principal.ID, s.keys.RefreshTTL, s.keys.RefreshPrivateKey)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("subject", principal.ID).Info("Refresh succeeded, new token pair issued")
	return &model.TokenPair{AccessToken: access.Token, RefreshToken: refresh.Token}, nil
}

// CheckSession validates an access token and confirms its principal still
// exists. Returns the principal view for the presentation layer.
func (s *AuthService) CheckSession(ctx context.Context, accessToken string) (*model.Principal, error) {
	claims, err := VerifyToken(accessToken, s.keys.AccessPublicKey)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	principal, err := s.resolver.FetchByID(fetchCtx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, ErrPrincipalGone
		}
		return nil, err
	}
	return principal, nil
}
