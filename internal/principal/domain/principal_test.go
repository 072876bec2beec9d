package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPrincipal_IsRevoked(t *testing.T) {
	t.Run("ActivePrincipal", func(t *testing.T) {
		principal := &Principal{
			ID:   uuid.Must(uuid.NewV7()),
			Name: "active",
		}

		assert.False(t, principal.IsRevoked())
	})

	t.Run("RevokedPrincipal", func(t *testing.T) {
		revokedAt := time.Now().UTC()
		principal := &Principal{
			ID:        uuid.Must(uuid.NewV7()),
			Name:      "revoked",
			RevokedAt: &revokedAt,
		}

		assert.True(t, principal.IsRevoked())
	})
}

func TestPrincipal_HasPermission(t *testing.T) {
	principal := &Principal{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        "holder",
		Permissions: []string{"collections:read", "collections:write"},
	}

	t.Run("HeldPermission", func(t *testing.T) {
		assert.True(t, principal.HasPermission("collections:read"))
	})

	t.Run("MissingPermission", func(t *testing.T) {
		assert.False(t, principal.HasPermission("collections:delete"))
	})

	t.Run("EmptyPermissionSet", func(t *testing.T) {
		empty := &Principal{ID: uuid.Must(uuid.NewV7())}
		assert.False(t, empty.HasPermission("collections:read"))
	})
}
