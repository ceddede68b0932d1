package middleware

import (
	"net/http"

	"educrm/internal/domain"
	"educrm/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures the authenticated user has the specified role.
func RequireRole(requiredRole domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if domain.UserRole(role.(string)) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// StaffOnly admits counselors, org admins and super admins. Fine-grained
// decisions stay in the services via the authz resolver; this keeps
// students off staff surfaces entirely.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.UserRole(c.GetString("role"))
		if !role.IsStaff() {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: staff only")
			c.Abort()
			return
		}
		c.Next()
	}
}
