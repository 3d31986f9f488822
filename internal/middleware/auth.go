package middleware

import (
	"net/http"
	"strings"

	"reviewroute/config"
	"reviewroute/internal/auth"
	"reviewroute/internal/domain"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and sets BusinessID, Email, Role in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("business_id", claims.BusinessID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole checks that the authenticated caller has one of the allowed roles.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		r := role.(string)
		for _, a := range allowed {
			if r == a {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// BusinessScope restricts dashboard routes to the business in the path. Admins
// pass through; owners must match the :businessId param.
func BusinessScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) == domain.RoleAdmin {
			c.Next()
			return
		}
		if GetBusinessID(c) != c.Param("businessId") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// GetBusinessID returns the caller's business id (empty for admin tokens).
func GetBusinessID(c *gin.Context) string {
	v, _ := c.Get("business_id")
	if v == nil {
		return ""
	}
	return v.(string)
}

func GetRole(c *gin.Context) string {
	v, _ := c.Get("role")
	if v == nil {
		return ""
	}
	return v.(string)
}
