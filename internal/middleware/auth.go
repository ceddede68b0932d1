package middleware

import (
	"net/http"
	"strings"

	"educrm/internal/authz"
	"educrm/internal/domain"
	jwtsvc "educrm/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Auth validates the bearer token and stores the identity claims on the
// request context.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abortUnauthorized(c, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			abortUnauthorized(c, "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("org_id", claims.OrgID)

		c.Next()
	}
}

// ViewerFromContext builds the authorization viewer from the claims the
// Auth middleware stored. Zero-valued when the request is unauthenticated.
func ViewerFromContext(c *gin.Context) authz.Viewer {
	return authz.Viewer{
		ID:    c.GetInt64("user_id"),
		Role:  domain.UserRole(c.GetString("role")),
		OrgID: c.GetInt64("org_id"),
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
