package app

import (
	"fmt"
	"net/http"

	"Gin_postgres_redis_local_library/models"

	"github.com/gin-gonic/gin"
)

// Decision is the outcome of a capability check.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize checks one named permission. Admins hold every permission.
func Authorize(cfg Config, u *models.User, perm string) Decision {
	if u == nil {
		return Deny("authentication required")
	}
	if cfg.IsAdmin(u) {
		return Allow()
	}
	if u.HasPerm(perm) {
		return Allow()
	}
	return Deny(fmt.Sprintf("missing permission %s", perm))
}

// PermissionRequired runs before the handler reads anything; it must be
// chained after AuthRequired.
func PermissionRequired(cfg Config, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if d := Authorize(cfg, u, perm); !d.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden", "reason": d.Reason})
			return
		}
		c.Next()
	}
}

func AdminOnly(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !cfg.IsAdmin(u) {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
