package service

import "errors"

// Sentinel errors for the auth core. Handlers map these to HTTP status codes;
// user-facing messages stay generic so the API never leaks whether an email
// exists or which check a bad token failed.
var (
	// ErrInvalidCredential covers both unknown login and wrong secret.
	// The two causes are distinguished in logs only.
	ErrInvalidCredential = errors.New("invalid email or password")

	// Token-level verification failures.
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature is invalid")

	// ErrSigningKey means the signing key could not be decoded or signing failed.
	ErrSigningKey = errors.New("could not sign token")

	// Refresh flow outcomes.
	ErrEmptyRefreshToken   = errors.New("refresh token is required")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshAlreadyUsed  = errors.New("the refresh token has already been used")
	ErrPrincipalGone       = errors.New("the user belonging to this token no longer exists")

	// ErrPrincipalNotFound is the resolver-level miss for FetchByID.
	ErrPrincipalNotFound = errors.New("principal not found")

	// Operational failures. Never interpreted as a definitive
	// "not found" / "not consumed" outcome.
	ErrLedgerUnavailable   = errors.New("revocation ledger unavailable")
	ErrResolverUnavailable = errors.New("identity backend unavailable")
)
