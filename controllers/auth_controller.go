// controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"
	"Gin_postgres_redis_local_library/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var compareHash = bcrypt.CompareHashAndPassword

// dummyHash stands in for unknown usernames and password-less members, so
// every login attempt costs one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-member"), bcrypt.DefaultCost)

func passwordMatches(u *models.User, password string) bool {
	hash, known := dummyHash, false
	if u != nil && u.PasswordHash != nil {
		hash, known = []byte(*u.PasswordHash), true
	}
	err := compareHash(hash, []byte(password))
	return known && err == nil
}

type passwordLogin struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// POST /auth/login
func (s *Srv) Login(c *gin.Context) {
	var in passwordLogin
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "username and password are required"})
		return
	}
	ctx := c.Request.Context()

	u, err := s.Repo.FindUserByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		writeError(c, err)
		return
	}
	if !passwordMatches(u, in.Password) {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid username or password"})
		return
	}

	if err := s.issueSession(ctx, c.Writer, u.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "create app session failed"})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "username": u.Username})
}

// POST /auth/logout
func (s *Srv) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		if err := s.AppSess.Delete(c.Request.Context(), ck.Value); err != nil {
			logger.Log.WithError(err).Warn("delete app session")
		}
	}
	s.setAppCookie(c.Writer, "", -1)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /auth/whoami
func (s *Srv) WhoAmI(c *gin.Context) {
	u := app.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	perms := []string(u.Permissions)
	isAdmin := s.Cfg.IsAdmin(u)
	if isAdmin {
		perms = models.KnownPermissions()
	}
	// Reading the counter does not count as a visit.
	visits, err := s.AppSess.GetInt(c.Request.Context(), app.CurrentSessionID(c), session.VisitsKey, 0)
	if err != nil {
		logger.Log.WithError(err).Warn("read visit counter")
	}
	c.JSON(http.StatusOK, app.H{
		"userID":      u.ID,
		"username":    u.Username,
		"displayName": u.DisplayName,
		"isAdmin":     isAdmin,
		"permissions": perms,
		"num_visits":  visits,
	})
}

// PUT /api/me/password
func (s *Srv) SetPassword(c *gin.Context) {
	u := app.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Password string `json:"password" form:"password"`
	}
	_ = c.ShouldBind(&in)
	if len(in.Password) < minPasswordLen {
		writeError(c, services.NewValidationError("password", "Ensure this value has at least 8 characters."))
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.Repo.SetUserPassword(c.Request.Context(), u.ID, string(hash)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
