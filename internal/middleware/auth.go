package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/model"
	"datarw/internal/service"
)

// Context keys set by AuthMiddleware
const (
	CtxOrgID   = "orgID"
	CtxActorID = "actorID"
	CtxRole    = "role"
)

// AuthMiddleware resolves the bearer API key to its organization and actor.
// Accepts "Authorization: Bearer <key>" and the legacy "X-API-Key" header.
func AuthMiddleware(apiKeys *service.APIKeyService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainKey := extractKey(c)
		if plainKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Missing API key", ""))
			return
		}

		key, err := apiKeys.ValidateKey(c.Request.Context(), plainKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Invalid API key", ""))
			return
		}
		if !key.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("API key is deactivated", ""))
			return
		}

		// A key whose owner cannot be resolved authenticates nothing
		actorID := key.CreatedBy
		if actorID == primitive.NilObjectID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("API key has no owner", ""))
			return
		}
		user, err := users.Get(c.Request.Context(), key.OrgID, actorID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("API key owner not found", ""))
			} else {
				c.AbortWithStatusJSON(http.StatusInternalServerError, model.NewErrorResponse("Failed to resolve API key owner", ""))
			}
			return
		}
		if !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("User is deactivated", ""))
			return
		}

		c.Set(CtxOrgID, key.OrgID)
		c.Set(CtxActorID, actorID)
		c.Set(CtxRole, user.Role)
		c.Next()
	}
}

// RequirePermission gates a route group on the role permission table
func RequirePermission(perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(CtxRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Unauthenticated", ""))
			return
		}
		if !role.(model.Role).Can(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, model.NewErrorResponse("Insufficient permissions", string(perm)))
			return
		}
		c.Next()
	}
}

func extractKey(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	return c.GetHeader("X-API-Key")
}

// OrgID returns the authenticated organization from the request context
func OrgID(c *gin.Context) primitive.ObjectID {
	if v, ok := c.Get(CtxOrgID); ok {
		if id, ok2 := v.(primitive.ObjectID); ok2 {
			return id
		}
	}
	return primitive.NilObjectID
}

// ActorID returns the acting user from the request context
func ActorID(c *gin.Context) primitive.ObjectID {
	if v, ok := c.Get(CtxActorID); ok {
		if id, ok2 := v.(primitive.ObjectID); ok2 {
			return id
		}
	}
	return primitive.NilObjectID
}
