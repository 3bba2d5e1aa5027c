package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"
	"Gin_postgres_redis_local_library/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct {
	repo    *db.Repo
	appSess *session.AppSessionStore
	cfg     app.Config
}

func GetUserController(repo *db.Repo, appSess *session.AppSessionStore, cfg app.Config) *UserController {
	return &UserController{repo: repo, appSess: appSess, cfg: cfg}
}

func userIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return "", false
	}
	return id, true
}

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "users": res.Users})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := uc.repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if me := app.CurrentUser(c); me != nil && me.ID == id {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}

	target, err := uc.repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if uc.cfg.IsAdmin(target) {
		c.JSON(http.StatusForbidden, app.H{"error": "cannot delete an admin"})
		return
	}

	if err := uc.repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	if err := uc.appSess.RevokeAllForUser(c.Request.Context(), id); err != nil {
		logger.Log.WithError(err).WithField("user", id).Warn("revoke sessions")
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// normalizePermissions trims, dedupes and sorts codenames, rejecting any that
// cannot be granted.
func normalizePermissions(in []string) ([]string, error) {
	known := make(map[string]struct{})
	for _, p := range models.KnownPermissions() {
		known[p] = struct{}{}
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if _, ok := known[p]; !ok {
			return nil, services.NewValidationError("permissions", "Unknown permission "+strconv.Quote(p)+".")
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// PUT /api/users/:id/permissions replaces the member's permission set.
func (uc *UserController) SetPermissions(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var in struct {
		Permissions []string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	perms, err := normalizePermissions(in.Permissions)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := uc.repo.SetUserPermissions(c.Request.Context(), id, perms); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "permissions": perms})
}

// GET /api/permissions
func (uc *UserController) ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, app.H{"permissions": models.KnownPermissions()})
}
