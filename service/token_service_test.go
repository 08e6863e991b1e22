package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Generating RSA keys is slow, so the test key pairs are created once and
// shared across the package.
var (
	testKeysOnce sync.Once

	testAccessPrivKey  string
	testAccessPubKey   string
	testRefreshPrivKey string
	testRefreshPubKey  string
)

func testKeys(t *testing.T) (accessPriv, accessPub, refreshPriv, refreshPub string) {
	t.Helper()
	testKeysOnce.Do(func() {
		testAccessPrivKey, testAccessPubKey = generateKeyPair(t)
		testRefreshPrivKey, testRefreshPubKey = generateKeyPair(t)
	})
	return testAccessPrivKey, testAccessPubKey, testRefreshPrivKey, testRefreshPubKey
}

func generateKeyPair(t *testing.T) (privB64, pubB64 string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return base64.StdEncoding.EncodeToString(privPEM), base64.StdEncoding.EncodeToString(pubPEM)
}

func TestIssueToken(t *testing.T) {
	priv, pub, _, _ := testKeys(t)

	t.Run("round trip preserves claims", func(t *testing.T) {
		details, err := IssueToken("user-123", 5*time.Minute, priv)
		require.NoError(t, err)
		assert.NotEmpty(t, details.Token)
		assert.NotEmpty(t, details.TokenUUID)

		claims, err := VerifyToken(details.Token, pub)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject)
		assert.Equal(t, details.TokenUUID, claims.TokenUUID)
		assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("every token gets a fresh instance identifier", func(t *testing.T) {
		first, err := IssueToken("user-123", time.Minute, priv)
		require.NoError(t, err)
		second, err := IssueToken("user-123", time.Minute, priv)
		require.NoError(t, err)

		assert.NotEqual(t, first.TokenUUID, second.TokenUUID)
		assert.NotEqual(t, first.Token, second.Token)
	})

	t.Run("malformed key fails with signing error", func(t *testing.T) {
		_, err := IssueToken("user-123", time.Minute, "not-base64!!!")
		assert.ErrorIs(t, err, ErrSigningKey)

		garbagePEM := base64.StdEncoding.EncodeToString([]byte("not a pem block"))
		_, err = IssueToken("user-123", time.Minute, garbagePEM)
		assert.ErrorIs(t, err, ErrSigningKey)
	})
}

func TestVerifyToken(t *testing.T) {
	priv, pub, _, otherPub := testKeys(t)

	t.Run("valid within ttl", func(t *testing.T) {
		details, err := IssueToken("user-1", 5*time.Second, priv)
		require.NoError(t, err)

		claims, err := VerifyToken(details.Token, pub)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
	})

	t.Run("expired reports Expired, never Malformed or InvalidSignature", func(t *testing.T) {
		details, err := IssueToken("user-1", -time.Second, priv)
		require.NoError(t, err)

		_, err = VerifyToken(details.Token, pub)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.NotErrorIs(t, err, ErrTokenMalformed)
		assert.NotErrorIs(t, err, ErrTokenSignature)
	})

	t.Run("garbage input is malformed", func(t *testing.T) {
		_, err := VerifyToken("this is not a jwt", pub)
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("wrong public key is an invalid signature", func(t *testing.T) {
		details, err := IssueToken("user-1", time.Minute, priv)
		require.NoError(t, err)

		_, err = VerifyToken(details.Token, otherPub)
		assert.ErrorIs(t, err, ErrTokenSignature)
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		details, err := IssueToken("user-1", time.Minute, priv)
		require.NoError(t, err)

		tampered := details.Token[:len(details.Token)-4] + "AAAA"
		_, err = VerifyToken(tampered, pub)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrTokenExpired)
	})
}
