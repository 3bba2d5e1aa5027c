package app

import (
	"context"
	"net/http"

	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

const (
	ctxUser      = "user"
	ctxUserID    = "userID"
	ctxUsername  = "username"
	ctxSessionID = "sessionID"
)

// UserFinder resolves the user behind a session.
type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

func AuthRequired(appSess *session.AppSessionStore, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// The account may have been deleted since the session was issued.
		u, err := users.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		SetCurrentUser(c, u, ck.Value)
		c.Next()
	}
}

// SetCurrentUser stores the authenticated caller on the request context.
func SetCurrentUser(c *gin.Context, u *models.User, sessionID string) {
	c.Set(ctxUser, u)
	c.Set(ctxUserID, u.ID)
	c.Set(ctxUsername, u.Username)
	c.Set(ctxSessionID, sessionID)
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func CurrentSessionID(c *gin.Context) string { return c.GetString(ctxSessionID) }
