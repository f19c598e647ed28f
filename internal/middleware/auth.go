package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/protrack/protrack-api/internal/errors"
	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/services"
)

const contextKeyActor = "actor"

// RequireAuth validates the bearer access token and stores the actor
// identity in the request context.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired access token")
			c.Abort()
			return
		}

		c.Set(contextKeyActor, services.Actor{
			ID:       claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Fine-grained checks
// stay in the services; this only covers coarse route access.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetActor retrieves the authenticated actor from the request context.
func GetActor(c *gin.Context) (services.Actor, bool) {
	value, exists := c.Get(contextKeyActor)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := value.(services.Actor)
	return actor, ok
}
