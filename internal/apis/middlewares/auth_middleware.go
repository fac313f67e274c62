package middlewares

import (
	"net/http"

	"surf-forecast/internal/apis/dtos"
	"surf-forecast/internal/di"
	"surf-forecast/internal/repositories"
	"surf-forecast/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const accessTokenHeader = "x-access-token"

var authMiddleware gin.HandlerFunc

// AuthMiddleware resolves its dependencies from the container once and reuses the handler.
func AuthMiddleware() gin.HandlerFunc {
	if authMiddleware != nil {
		return authMiddleware
	}

	if err := di.DiContainer.Invoke(func(jwtService utils.JWTService, tokenRepo repositories.TokenRepository, logger *zap.Logger) {
		authMiddleware = NewAuthMiddleware(jwtService, tokenRepo, logger)
	}); err != nil {
		zap.L().Fatal("Failed to build auth middleware", zap.Error(err))
	}
	return authMiddleware
}

// NewAuthMiddleware rejects requests without a valid, unrevoked token in x-access-token. On
// success the user id, claims and raw token are stored on the context as "userID", "claims"
// and "token".
func NewAuthMiddleware(jwtService utils.JWTService, tokenRepo repositories.TokenRepository, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := c.GetHeader(accessTokenHeader)
		if token == "" {
			unauthorized(c, "jwt must be provided")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		revoked, err := tokenRepo.IsTokenBlacklisted(c.Request.Context(), token)
		if err != nil {
			logger.Error("Failed to check token revocation", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dtos.NewErrorResponse(http.StatusInternalServerError, "Something went wrong!"))
			return
		}
		if revoked {
			unauthorized(c, "Token has been revoked")
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("claims", claims)
		c.Set("token", token)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dtos.NewErrorResponse(http.StatusUnauthorized, message))
}
