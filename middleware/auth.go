package middleware

import (
	"net/http"
	"strings"

	"spabook/models"
	"spabook/utils"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// ActorMiddleware resolves the acting user from the bearer token and places
// it in the request context. Handlers hand the actor explicitly to the
// booking core; nothing below the handler layer reads ambient session state.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		id, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set(actorContextKey, models.Actor{ID: id, Role: role})
		c.Next()
	}
}

// ActorFrom returns the actor resolved by ActorMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
