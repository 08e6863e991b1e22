package model

import "time"

// TokenDetails describes a single freshly minted token.
type TokenDetails struct {
	Token     string    `json:"token"`
	TokenUUID string    `json:"token_uuid"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair is what Login and Refresh return: a short-lived access token and
// a long-lived refresh token, minted together and never mutated.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}
