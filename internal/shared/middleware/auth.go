package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/shared/response"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/jwt"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/logger"
)

// Context keys set by AuthMiddleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyUserImg  = "user_img"
)

// AuthMiddleware verifies the bearer token and puts the caller's identity
// on the gin context.
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract the token from "Bearer <token>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify and parse
		claims, err := tokens.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			logger.Debug("rejected bearer token", map[string]interface{}{
				"error": err.Error(),
				"path":  c.Request.URL.Path,
			})
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		// 4. Expose the identity to handlers
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyUserImg, claims.ImgProfile)

		c.Next()
	}
}
