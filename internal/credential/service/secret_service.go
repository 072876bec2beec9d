package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/warden/internal/errors"
)

// secretService implements SecretService using SHA-256 for secret hashing.
type secretService struct{}

// GenerateSecret creates a new cryptographically secure 32-byte random secret.
// The secret is base64 URL-encoded for easy transmission, producing a
// fixed-length printable string. Returns the plain secret and its SHA-256 hash.
func (s *secretService) GenerateSecret() (plainSecret string, secretHash string, error error) {
	// Generate 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random secret")
	}

	// Encode to base64 URL-safe string for text representation
	plainSecret = base64.URLEncoding.EncodeToString(randomBytes)

	// Hash the secret using SHA-256
	secretHash = s.HashSecret(plainSecret)

	return plainSecret, secretHash, nil
}

// HashSecret hashes a plain text secret using SHA-256.
// Returns the hash as a hexadecimal string.
func (s *secretService) HashSecret(plainSecret string) string {
	hash := sha256.Sum256([]byte(plainSecret))
	return hex.EncodeToString(hash[:])
}

// NewSecretService creates a new SecretService instance using SHA-256 for secret hashing.
func NewSecretService() SecretService {
	return &secretService{}
}
