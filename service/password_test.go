package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	password := "mySecretPassword123"

	hashedPassword, err := HashPassword(password)
	require.NoError(t, err)

	assert.NotEqual(t, password, hashedPassword)
	assert.True(t, strings.HasPrefix(hashedPassword, "$argon2id$v=19$"))

	assert.True(t, CheckPasswordHash(password, hashedPassword),
		"matching password should verify")
	assert.False(t, CheckPasswordHash("notMyPassword", hashedPassword),
		"non-matching password should not verify")
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("same-password", first))
	assert.True(t, CheckPasswordHash("same-password", second))
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"not a phc string": "plainly-not-a-hash",
		"wrong algorithm":  "$argon2i$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$AAAA",
		"wrong version":    "$argon2id$v=16$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$AAAA",
		"bad base64 salt":  "$argon2id$v=19$m=65536,t=3,p=2$!!!$AAAA",
	}
	for name, hash := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, CheckPasswordHash("whatever", hash))
		})
	}
}
