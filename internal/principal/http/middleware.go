package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	credentialUseCase "github.com/allisson/warden/internal/credential/usecase"
	apperrors "github.com/allisson/warden/internal/errors"
	"github.com/allisson/warden/internal/httputil"
	principalUseCase "github.com/allisson/warden/internal/principal/usecase"
)

// AuthenticationMiddleware provides authentication via Bearer token in the Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Looks up the credential by re-hashing the presented secret
// 3. Checks the credential is neither revoked nor expired
// 4. Loads the owning principal and checks it is not revoked
// 5. Stores the principal in the request context for access via GetActor()
// 6. Records the principal's last-used instant (best effort)
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer")
//
// Every authentication failure maps to 401 Unauthorized; the response does not
// distinguish an unknown secret from a revoked or expired one.
func AuthenticationMiddleware(
	credentials credentialUseCase.CredentialUseCase,
	principals principalUseCase.PrincipalUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainSecret := authHeader[len(bearerPrefix):]
		if plainSecret == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		credential, err := credentials.FindByToken(ctx, plainSecret)
		if err != nil {
			logger.Debug("authentication failed: unknown credential")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !credential.IsValid(time.Now().UTC()) {
			logger.Debug("authentication failed: credential revoked or expired",
				slog.String("credential_id", credential.ID.String()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		actor, err := principals.Get(ctx, credential.OwnerID)
		if err != nil {
			logger.Debug("authentication failed: owner lookup",
				slog.String("credential_id", credential.ID.String()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if actor.IsRevoked() {
			logger.Debug("authentication failed: principal revoked",
				slog.String("principal_id", actor.ID.String()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Best effort; a failed touch must not reject the request.
		if err := principals.TouchLastUsed(ctx, actor.ID); err != nil {
			logger.Warn("failed to record last-used instant",
				slog.String("principal_id", actor.ID.String()),
				slog.Any("error", err))
		}

		c.Request = c.Request.WithContext(WithActor(ctx, actor))

		logger.Debug("authentication successful",
			slog.String("principal_id", actor.ID.String()),
			slog.String("principal_name", actor.Name))

		c.Next()
	}
}

// RequireAdminMiddleware restricts a route group to administrator principals.
// Must run after AuthenticationMiddleware.
func RequireAdminMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c.Request.Context())
		if !ok || actor == nil {
			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !actor.IsAdmin {
			logger.Debug("authorization failed: administrator required",
				slog.String("principal_id", actor.ID.String()))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
