// Package service provides secret generation and hashing for credentials.
//
// Secrets are drawn from a cryptographically secure random source with 256
// bits of entropy and hashed with a deterministic, non-keyed digest (SHA-256)
// so a presented secret can be matched against stored records by re-hashing.
package service

// SecretService defines operations for credential secret generation and hashing.
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (shared with the caller exactly once)
	// and the SHA-256 hash (the only representation that is persisted).
	GenerateSecret() (plainSecret string, secretHash string, error error)

	// HashSecret hashes a plain text secret using SHA-256.
	// Used to match a presented secret against stored hashes.
	HashSecret(plainSecret string) string
}
