package middleware

import (
	"net/http"
	"strings"

	"github.com/estatekit/backend/internal/infrastructure/auth"
	"github.com/estatekit/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey     = "jwt_claims"
	UserIDKey     = "jwt_user_id"
	RoleKey       = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuth validates the bearer token and places the acting user into both the
// gin context and the request context, where the authorizer reads it.
func JWTAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "INVALID_TOKEN", "Missing token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if log != nil {
				log.Warn("JWT authentication failed",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
			switch err {
			case auth.ErrExpiredToken:
				abortUnauthorized(c, "TOKEN_EXPIRED", "Token has expired")
			case auth.ErrTokenNotYetValid:
				abortUnauthorized(c, "TOKEN_NOT_VALID", "Token is not yet valid")
			default:
				abortUnauthorized(c, "INVALID_TOKEN", "Invalid token")
			}
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid token claims")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)

		ctx := auth.WithActor(c.Request.Context(), actor)
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetClaims retrieves JWT claims from gin.Context
func GetClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(ClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user ID from gin.Context
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(UserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}
