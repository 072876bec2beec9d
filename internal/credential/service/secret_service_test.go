package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretService(t *testing.T) {
	service := NewSecretService()
	assert.NotNil(t, service)
	assert.IsType(t, &secretService{}, service)
}

func TestSecretService_GenerateSecret(t *testing.T) {
	service := NewSecretService()

	t.Run("Success_GenerateSecret", func(t *testing.T) {
		plainSecret, secretHash, err := service.GenerateSecret()

		require.NoError(t, err)
		assert.NotEmpty(t, plainSecret)
		assert.NotEmpty(t, secretHash)

		// Plain secret is base64 URL-encoded 32 bytes
		decodedBytes, err := base64.URLEncoding.DecodeString(plainSecret)
		require.NoError(t, err)
		assert.Len(t, decodedBytes, 32, "decoded secret should be 32 bytes")

		// Hash is a SHA-256 hex string
		assert.Len(t, secretHash, 64, "SHA-256 hash should be 64 hex characters")
		expectedHash := sha256.Sum256([]byte(plainSecret))
		assert.Equal(t, hex.EncodeToString(expectedHash[:]), secretHash)
	})

	t.Run("Success_GenerateUniqueSecrets", func(t *testing.T) {
		plainSecret1, secretHash1, err1 := service.GenerateSecret()
		require.NoError(t, err1)

		plainSecret2, secretHash2, err2 := service.GenerateSecret()
		require.NoError(t, err2)

		assert.NotEqual(t, plainSecret1, plainSecret2, "generated secrets should be unique")
		assert.NotEqual(t, secretHash1, secretHash2, "generated hashes should be unique")
	})
}

func TestSecretService_HashSecret(t *testing.T) {
	service := NewSecretService()

	t.Run("Success_HashSecret", func(t *testing.T) {
		plainSecret := "test-secret-abc123"

		secretHash := service.HashSecret(plainSecret)

		assert.Len(t, secretHash, 64, "SHA-256 hash should be 64 hex characters")
		expectedHash := sha256.Sum256([]byte(plainSecret))
		assert.Equal(t, hex.EncodeToString(expectedHash[:]), secretHash)
	})

	t.Run("Success_ConsistentHashing", func(t *testing.T) {
		plainSecret := "consistent-secret-xyz789"

		hash1 := service.HashSecret(plainSecret)
		hash2 := service.HashSecret(plainSecret)

		assert.Equal(t, hash1, hash2, "hashing should be deterministic")
	})

	t.Run("Success_DifferentSecretsProduceDifferentHashes", func(t *testing.T) {
		hash1 := service.HashSecret("secret-one")
		hash2 := service.HashSecret("secret-two")

		assert.NotEqual(t, hash1, hash2, "different secrets should have different hashes")
	})
}
