package model

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the signed payload carried inside every issued token.
// TokenUUID identifies the minted token instance itself (not the session);
// the refresh flow uses it as the revocation ledger key.
type TokenClaims struct {
	TokenUUID string `json:"token_uuid"`
	jwt.RegisteredClaims
}
