package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/designxpo/PoonamCosmetics-sub001/pkg/resp"
	"github.com/designxpo/PoonamCosmetics-sub001/utils"
)

// bearerToken extracts the credential from the Authorization header or,
// failing that, the token cookie. The header wins when both are present.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if t, err := c.Cookie("token"); err == nil {
		return t
	}
	return ""
}

func setIdentity(c *gin.Context, claims *utils.Claims) bool {
	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return false
	}
	c.Set("userId", uid)
	c.Set("role", claims.Role)
	return true
}

// AuthMiddleware verifies the token and, when roles are given, requires
// the principal to hold one of them.
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			resp.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenStr, secret)
		if err != nil || !setIdentity(c, claims) {
			resp.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		if len(requiredRoles) > 0 {
			role := claims.Role
			allowed := false
			for _, r := range requiredRoles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				resp.Forbidden(c, "forbidden")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// OptionalAuthMiddleware attaches an identity when a valid token is
// supplied and lets the request through anonymously otherwise. Used by
// guest-capable endpoints such as order creation.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := bearerToken(c); tokenStr != "" {
			if claims, err := utils.ParseToken(tokenStr, secret); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}
