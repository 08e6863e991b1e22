package service

import (
	"context"
	"go-auth-api/model"
)

// IIdentityResolver is the capability contract every identity backend must
// satisfy. The session flows are written once against this interface; which
// concrete backend is active (SQL table or LDAP directory) is decided once at
// process start and injected.
type IIdentityResolver interface {
	// AuthenticateByCredential looks up a principal by login identifier and
	// checks the supplied secret. Unknown login and wrong secret both return
	// ErrInvalidCredential; backend outages return ErrResolverUnavailable.
	AuthenticateByCredential(ctx context.Context, loginID, secret string) (*model.Principal, error)

	// FetchByID returns the principal for a stable identifier, or
	// ErrPrincipalNotFound if it no longer exists.
	FetchByID(ctx context.Context, principalID string) (*model.Principal, error)
}
