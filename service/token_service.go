package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IssueToken mints a signed token for the given subject. Every call generates
// a fresh token instance identifier (token_uuid); two tokens minted for the
// same subject are never identical. The private key is a base64-encoded PEM
// RSA key, distinct per token purpose (access vs refresh).
func IssueToken(subject string, ttl time.Duration, privateKey string) (*model.TokenDetails, error) {
	decodedKey, err := base64.StdEncoding.DecodeString(privateKey)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to base64-decode token private key")
		return nil, fmt.Errorf("%w: decode private key: %v", ErrSigningKey, err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(decodedKey)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to parse token private key")
		return nil, fmt.Errorf("%w: parse private key: %v", ErrSigningKey, err)
	}

	now := time.Now().UTC()
	details := &model.TokenDetails{
		TokenUUID: uuid.NewString(),
		Subject:   subject,
		ExpiresAt: now.Add(ttl),
	}

	claims := model.TokenClaims{
		TokenUUID: details.TokenUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(details.ExpiresAt),
		},
	}

	details.Token, err = jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		logger.Log.WithError(err).WithField("subject", subject).Error("Failed to sign token")
		return nil, fmt.Errorf("%w: %v", ErrSigningKey, err)
	}

	return details, nil
}

// VerifyToken checks the signature and expiry of a presented token against
// the base64-encoded PEM RSA public key and returns its claims. Pure
// function: no I/O beyond CPU-bound signature verification.
//
// An expired token always reports ErrTokenExpired, even though its other
// claims validations ran too; callers rely on that distinction.
func VerifyToken(tokenString string, publicKey string) (*model.TokenClaims, error) {
	decodedKey, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: decode public key: %v", ErrTokenSignature, err)
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(decodedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key: %v", ErrTokenSignature, err)
	}

	claims := &model.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		})

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	default:
		return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
	}
}
