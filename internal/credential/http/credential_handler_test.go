package http

import (
	"bytes"
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
	principalHTTP "github.com/allisson/warden/internal/principal/http"
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

func testActor() *principalDomain.Principal {
	return &principalDomain.Principal{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "test-principal",
		Contact:   "test@example.com",
		CreatedAt: time.Now().UTC(),
	}
}

func testCredential(ownerID uuid.UUID) *credentialDomain.Credential {
	return &credentialDomain.Credential{
		ID:         uuid.Must(uuid.NewV7()),
		OwnerID:    ownerID,
		Name:       "deploy-key",
		SecretHash: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		CreatedAt:  time.Now().UTC(),
	}
}

// setupCredentialRouter registers the credential routes behind a middleware
// that stores the given actor in the request context. A nil actor simulates an
// unauthenticated request.
func setupCredentialRouter(useCase *mockCredentialUseCase, actor *principalDomain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCredentialHandler(useCase, slog.New(slog.DiscardHandler))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if actor != nil {
			c.Request = c.Request.WithContext(principalHTTP.WithActor(c.Request.Context(), actor))
		}
	})
	router.POST("/v1/credentials", handler.CreateHandler)
	router.GET("/v1/credentials", handler.ListHandler)
	router.GET("/v1/credentials/:id", handler.GetHandler)
	router.POST("/v1/credentials/:id/revoke", handler.RevokeHandler)
	router.DELETE("/v1/credentials/:id", handler.DeleteHandler)
	return router
}

func TestCredentialHandler_CreateHandler(t *testing.T) {
	t.Run("Success_IssueCredential", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		actor := testActor()

		credential := testCredential(actor.ID)
		output := &credentialDomain.GenerateCredentialOutput{
			Credential:  credential,
			PlainSecret: "one-time-plaintext",
		}

		useCase.On("Generate", mock.Anything, mock.MatchedBy(func(input *credentialDomain.GenerateCredentialInput) bool {
			return input.OwnerID == actor.ID && input.Name == "deploy-key"
		})).
			Return(output, nil).
			Once()

		router := setupCredentialRouter(useCase, actor)
		w := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"name":"deploy-key","description":"CI deploys"}`)
		req, _ := http.NewRequest(http.MethodPost, "/v1/credentials", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"secret":"one-time-plaintext"`)
		assert.NotContains(t, w.Body.String(), credential.SecretHash)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}

		router := setupCredentialRouter(useCase, nil)
		w := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"name":"deploy-key"}`)
		req, _ := http.NewRequest(http.MethodPost, "/v1/credentials", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		useCase.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}

		router := setupCredentialRouter(useCase, testActor())
		w := httptest.NewRecorder()
		body := bytes.NewBufferString(`{invalid`)
		req, _ := http.NewRequest(http.MethodPost, "/v1/credentials", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_MissingName", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}

		router := setupCredentialRouter(useCase, testActor())
		w := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"description":"no name"}`)
		req, _ := http.NewRequest(http.MethodPost, "/v1/credentials", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		useCase.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})
}

func TestCredentialHandler_ListHandler(t *testing.T) {
	t.Run("Success_ListOwnCredentials", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		actor := testActor()

		credentials := []*credentialDomain.Credential{
			testCredential(actor.ID),
			testCredential(actor.ID),
		}

		useCase.On("ListByOwner", mock.Anything, actor.ID, 0, 50).
			Return(credentials, nil).
			Once()

		router := setupCredentialRouter(useCase, actor)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/credentials", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), credentials[0].SecretHash)
		useCase.AssertExpectations(t)
	})

	t.Run("Success_CustomPagination", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		actor := testActor()

		useCase.On("ListByOwner", mock.Anything, actor.ID, 10, 20).
			Return([]*credentialDomain.Credential{}, nil).
			Once()

		router := setupCredentialRouter(useCase, actor)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/credentials?offset=10&limit=20", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}

		router := setupCredentialRouter(useCase, testActor())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/credentials?limit=0", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		useCase.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCredentialHandler_GetHandler(t *testing.T) {
	t.Run("Success_OwnerReadsOwnCredential", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		actor := testActor()
		credential := testCredential(actor.ID)

		useCase.On("FindByID", mock.Anything, credential.ID).
			Return(credential, nil).
			Once()

		router := setupCredentialRouter(useCase, actor)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/credentials/"+credential.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), credential.ID.String())
		assert.NotContains(t, w.Body.String(), credential.SecretHash)
		useCase.AssertExpectations(t)
	})

	t.Run("Success_AdminReadsForeignCredential", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		admin := testActor()
		admin.IsAdmin = true
		credential := testCredential(uuid.Must(uuid.NewV7()))

		useCase.On("FindByID", mock.Anything, credential.ID).
			Return(credential, nil).
			Once()

		router := setupCredentialRouter(useCase, admin)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/credentials/"+credential.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_ForeignCredentialLooksMissing", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		actor := testActor()
		credential := testCredential(uuid.Must(uuid.NewV7()))

		useCase.On("FindByID", mock.Anything, credential.ID).
			Return(credential, nil).
			Once()

		router := setupCredentialRouter(useCase, actor)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/credentials/"+credential.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidCredentialID", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}

		router := setupCredentialRouter(useCase, testActor())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/credentials/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Error_CredentialNotFound", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		credentialID := uuid.Must(uuid.NewV7())

		useCase.On("FindByID", mock.Anything, credentialID).
			Return(nil, credentialDomain.ErrCredentialNotFound).
			Once()

		router := setupCredentialRouter(useCase, testActor())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/v1/credentials/"+credentialID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCredentialHandler_RevokeHandler(t *testing.T) {
	t.Run("Success_RevokeOwnCredential", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		actor := testActor()
		credential := testCredential(actor.ID)

		revoked := *credential
		revoked.Revoked = true

		useCase.On("FindByID", mock.Anything, credential.ID).
			Return(credential, nil).
			Once()
		useCase.On("Revoke", mock.Anything, credential.ID).
			Return(&revoked, nil).
			Once()

		router := setupCredentialRouter(useCase, actor)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/v1/credentials/"+credential.ID.String()+"/revoke", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"revoked":true`)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_ForeignCredential", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		credential := testCredential(uuid.Must(uuid.NewV7()))

		useCase.On("FindByID", mock.Anything, credential.ID).
			Return(credential, nil).
			Once()

		router := setupCredentialRouter(useCase, testActor())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/v1/credentials/"+credential.ID.String()+"/revoke", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		useCase.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})
}

func TestCredentialHandler_DeleteHandler(t *testing.T) {
	t.Run("Success_DeleteOwnCredential", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		actor := testActor()
		credential := testCredential(actor.ID)

		useCase.On("FindByID", mock.Anything, credential.ID).
			Return(credential, nil).
			Once()
		useCase.On("Delete", mock.Anything, credential.ID).
			Return(nil).
			Once()

		router := setupCredentialRouter(useCase, actor)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/v1/credentials/"+credential.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_ForeignCredential", func(t *testing.T) {
		useCase := &mockCredentialUseCase{}
		credential := testCredential(uuid.Must(uuid.NewV7()))

		useCase.On("FindByID", mock.Anything, credential.ID).
			Return(credential, nil).
			Once()

		router := setupCredentialRouter(useCase, testActor())
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/v1/credentials/"+credential.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		useCase.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
