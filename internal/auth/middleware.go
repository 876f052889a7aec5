package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxProfileID = "profile_id"
	ctxEmail     = "profile_email"
	ctxRole      = "profile_role"
)

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is empty"})
			return
		}

		claims, err := ValidateToken(tokenString, accessTokenSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			}
			return
		}

		if claims.TokenType != tokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		SetIdentity(c, claims.Identity())
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// RequireCapability rejects callers whose role lacks c.
func RequireCapability(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Profile not authenticated"})
			return
		}

		if !identity.Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions", "code": "unauthorized"})
			return
		}

		c.Next()
	}
}

// SetIdentity stores the authenticated caller on the request context.
func SetIdentity(c *gin.Context, identity Identity) {
	c.Set(ctxProfileID, identity.ProfileID)
	c.Set(ctxRole, identity.Role)
}

func CurrentIdentity(c *gin.Context) (Identity, bool) {
	profileID := c.GetString(ctxProfileID)
	if profileID == "" {
		return Identity{}, false
	}

	role, ok := c.Get(ctxRole)
	if !ok {
		return Identity{}, false
	}
	r, ok := role.(Role)
	if !ok {
		return Identity{}, false
	}

	return Identity{ProfileID: profileID, Role: r}, true
}

func GetProfileID(c *gin.Context) (string, bool) {
	id := c.GetString(ctxProfileID)
	return id, id != ""
}
