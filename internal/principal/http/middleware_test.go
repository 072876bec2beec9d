package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/warden/internal/credential/domain"
	principalDomain "github.com/allisson/warden/internal/principal/domain"
)

// mockCredentialUseCase is a mock implementation of credentialUseCase.CredentialUseCase for testing.
type mockCredentialUseCase struct {
	mock.Mock
}

func (m *mockCredentialUseCase) Generate(
	ctx context.Context,
	input *credentialDomain.GenerateCredentialInput,
) (*credentialDomain.GenerateCredentialOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.GenerateCredentialOutput), args.Error(1)
}

func (m *mockCredentialUseCase) FindByID(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialUseCase) FindByHash(
	ctx context.Context,
	secretHash string,
) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, secretHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialUseCase) FindByToken(
	ctx context.Context,
	plainSecret string,
) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, plainSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialUseCase) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialUseCase) Revoke(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialUseCase) Delete(ctx context.Context, credentialID uuid.UUID) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

// mockPrincipalUseCase is a mock implementation of principalUseCase.PrincipalUseCase for testing.
type mockPrincipalUseCase struct {
	mock.Mock
}

func (m *mockPrincipalUseCase) Create(
	ctx context.Context,
	input *principalDomain.CreatePrincipalInput,
) (*principalDomain.Principal, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*principalDomain.Principal), args.Error(1)
}

func (m *mockPrincipalUseCase) Register(
	ctx context.Context,
	input *principalDomain.RegisterInput,
) (*principalDomain.Principal, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*principalDomain.Principal), args.Error(1)
}

func (m *mockPrincipalUseCase) Get(
	ctx context.Context,
	principalID uuid.UUID,
) (*principalDomain.Principal, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*principalDomain.Principal), args.Error(1)
}

func (m *mockPrincipalUseCase) ChildrenOf(
	ctx context.Context,
	principalID uuid.UUID,
) ([]*principalDomain.Principal, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*principalDomain.Principal), args.Error(1)
}

func (m *mockPrincipalUseCase) AddPermission(
	ctx context.Context,
	actorID, targetID uuid.UUID,
	permission string,
	propagate bool,
) (*principalDomain.AddPermissionOutput, error) {
	args := m.Called(ctx, actorID, targetID, permission, propagate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*principalDomain.AddPermissionOutput), args.Error(1)
}

func (m *mockPrincipalUseCase) RevokeCreated(
	ctx context.Context,
	actorID, principalID uuid.UUID,
) (*principalDomain.RevokeOutput, error) {
	args := m.Called(ctx, actorID, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*principalDomain.RevokeOutput), args.Error(1)
}

func (m *mockPrincipalUseCase) RevokeAllCreated(
	ctx context.Context,
	actorID uuid.UUID,
) (*principalDomain.RevokeOutput, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*principalDomain.RevokeOutput), args.Error(1)
}

func (m *mockPrincipalUseCase) RevokeSelf(ctx context.Context, actorID uuid.UUID) (*time.Time, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *mockPrincipalUseCase) TouchLastUsed(ctx context.Context, principalID uuid.UUID) error {
	args := m.Called(ctx, principalID)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func activeTestPrincipal() *principalDomain.Principal {
	return &principalDomain.Principal{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "test-principal",
		Contact:   "test@example.com",
		CreatedAt: time.Now().UTC(),
	}
}

// setupAuthRouter builds a router with the authentication middleware and a
// probe endpoint that reports the resolved actor ID.
func setupAuthRouter(credentials *mockCredentialUseCase, principals *mockPrincipalUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthenticationMiddleware(credentials, principals, discardLogger()))
	router.GET("/probe", func(c *gin.Context) {
		actor, ok := GetActor(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no actor"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"principal_id": actor.ID.String()})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_ValidBearerToken", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		actor := activeTestPrincipal()
		credential := &credentialDomain.Credential{
			ID:      uuid.Must(uuid.NewV7()),
			OwnerID: actor.ID,
		}

		credentials.On("FindByToken", mock.Anything, "valid-secret").
			Return(credential, nil).
			Once()
		principals.On("Get", mock.Anything, actor.ID).
			Return(actor, nil).
			Once()
		principals.On("TouchLastUsed", mock.Anything, actor.ID).
			Return(nil).
			Once()

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer valid-secret")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), actor.ID.String())
		credentials.AssertExpectations(t)
		principals.AssertExpectations(t)
	})

	t.Run("Success_CaseInsensitiveBearerPrefix", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		actor := activeTestPrincipal()
		credential := &credentialDomain.Credential{
			ID:      uuid.Must(uuid.NewV7()),
			OwnerID: actor.ID,
		}

		credentials.On("FindByToken", mock.Anything, "valid-secret").
			Return(credential, nil).
			Once()
		principals.On("Get", mock.Anything, actor.ID).
			Return(actor, nil).
			Once()
		principals.On("TouchLastUsed", mock.Anything, actor.ID).
			Return(nil).
			Once()

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "bearer valid-secret")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_FailedTouchDoesNotRejectRequest", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		actor := activeTestPrincipal()
		credential := &credentialDomain.Credential{
			ID:      uuid.Must(uuid.NewV7()),
			OwnerID: actor.ID,
		}

		credentials.On("FindByToken", mock.Anything, "valid-secret").
			Return(credential, nil).
			Once()
		principals.On("Get", mock.Anything, actor.ID).
			Return(actor, nil).
			Once()
		principals.On("TouchLastUsed", mock.Anything, actor.ID).
			Return(assert.AnError).
			Once()

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer valid-secret")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingAuthorizationHeader", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		credentials.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	})

	t.Run("Error_MalformedAuthorizationHeader", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_EmptyBearerToken", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer ")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_UnknownSecret", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		credentials.On("FindByToken", mock.Anything, "unknown-secret").
			Return(nil, credentialDomain.ErrCredentialNotFound).
			Once()

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer unknown-secret")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		principals.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Error_RevokedCredential", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		credential := &credentialDomain.Credential{
			ID:      uuid.Must(uuid.NewV7()),
			OwnerID: uuid.Must(uuid.NewV7()),
			Revoked: true,
		}

		credentials.On("FindByToken", mock.Anything, "revoked-secret").
			Return(credential, nil).
			Once()

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer revoked-secret")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		principals.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Error_ExpiredCredential", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		expiresAt := time.Now().UTC().Add(-time.Hour)
		credential := &credentialDomain.Credential{
			ID:        uuid.Must(uuid.NewV7()),
			OwnerID:   uuid.Must(uuid.NewV7()),
			ExpiresAt: &expiresAt,
		}

		credentials.On("FindByToken", mock.Anything, "expired-secret").
			Return(credential, nil).
			Once()

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer expired-secret")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_RevokedPrincipal", func(t *testing.T) {
		credentials := &mockCredentialUseCase{}
		principals := &mockPrincipalUseCase{}

		revokedAt := time.Now().UTC().Add(-time.Hour)
		actor := activeTestPrincipal()
		actor.RevokedAt = &revokedAt
		credential := &credentialDomain.Credential{
			ID:      uuid.Must(uuid.NewV7()),
			OwnerID: actor.ID,
		}

		credentials.On("FindByToken", mock.Anything, "valid-secret").
			Return(credential, nil).
			Once()
		principals.On("Get", mock.Anything, actor.ID).
			Return(actor, nil).
			Once()

		router := setupAuthRouter(credentials, principals)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer valid-secret")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		principals.AssertNotCalled(t, "TouchLastUsed", mock.Anything, mock.Anything)
	})
}

func TestRequireAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setupAdminRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(RequireAdminMiddleware(discardLogger()))
		router.GET("/admin", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}

	t.Run("Success_AdminActor", func(t *testing.T) {
		router := gin.New()
		actor := activeTestPrincipal()
		actor.IsAdmin = true
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		})
		router.Use(RequireAdminMiddleware(discardLogger()))
		router.GET("/admin", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_NonAdminActor", func(t *testing.T) {
		router := gin.New()
		actor := activeTestPrincipal()
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		})
		router.Use(RequireAdminMiddleware(discardLogger()))
		router.GET("/admin", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_NoAuthenticatedActor", func(t *testing.T) {
		router := setupAdminRouter()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestActorContext(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		actor := activeTestPrincipal()
		ctx := WithActor(context.Background(), actor)

		found, ok := GetActor(ctx)

		assert.True(t, ok)
		assert.Equal(t, actor, found)
	})

	t.Run("MissingActor", func(t *testing.T) {
		found, ok := GetActor(context.Background())

		assert.False(t, ok)
		assert.Nil(t, found)
	})
}
