package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pardisoft/docflow_app/internal/core/domain"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
)

// requireCapability gates a route on a capability predicate evaluated against
// the authenticated user. Capability checks live here, at the boundary, so
// the services can trust the caller identity they are handed.
func requireCapability(userSvc portssvc.UserReaderSvc, allowed func(*domain.User) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := userSvc.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to load user for capability check", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !allowed(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}

		c.Next()
	}
}

// RequireApprover restricts a route to users holding the manager-or-admin capability.
func RequireApprover(userSvc portssvc.UserReaderSvc) gin.HandlerFunc {
	return requireCapability(userSvc, (*domain.User).CanApprove, "Approver capability required")
}

// RequireAdmin restricts a route to administrators.
func RequireAdmin(userSvc portssvc.UserReaderSvc) gin.HandlerFunc {
	return requireCapability(userSvc, (*domain.User).CanAdminister, "Administrator capability required")
}
