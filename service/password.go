package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"go-auth-api/logger"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Memory is in KiB as required by argon2.IDKey.
const (
	argonMemoryKiB   = 64 * 1024
	argonIterations  = 3
	argonParallelism = 2
	argonSaltLength  = 16
	argonKeyLength   = 32
)

var errInvalidHash = errors.New("invalid argon2id hash format")

// HashPassword returns a PHC-style Argon2id hash string:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		logger.Log.WithError(err).Error("Failed to generate password salt")
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt,
		argonIterations, argonMemoryKiB, argonParallelism, argonKeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemoryKiB, argonIterations, argonParallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// CheckPasswordHash verifies a password against an encoded Argon2id hash in
// constant time. Malformed hashes count as a mismatch.
func CheckPasswordHash(password, encodedHash string) bool {
	salt, expected, iterations, memory, parallelism, err := decodeArgon2idHash(encodedHash)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), salt,
		iterations, memory, parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(key, expected) == 1
}

func decodeArgon2idHash(encoded string) (salt, hash []byte, iterations, memory uint32, parallelism uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, errInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, errInvalidHash
	}

	var par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &par); err != nil {
		return nil, nil, 0, 0, 0, errInvalidHash
	}
	if memory == 0 || iterations == 0 || par == 0 || par > 255 {
		return nil, nil, 0, 0, 0, errInvalidHash
	}

	b64 := base64.RawStdEncoding
	if salt, err = b64.DecodeString(parts[4]); err != nil {
		return nil, nil, 0, 0, 0, errInvalidHash
	}
	if hash, err = b64.DecodeString(parts[5]); err != nil || len(hash) < 16 {
		return nil, nil, 0, 0, 0, errInvalidHash
	}

	return salt, hash, iterations, memory, uint8(par), nil
}
