package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/services"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, err error) {
	if ve, ok := services.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, app.H{"error": ve.Message, "field": ve.Field})
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, app.H{"error": "conflict"})
	default:
		_ = c.Error(err)
		logger.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// pageParam reads ?page=&size=; bad values fall back to the defaults.
func pageParam(c *gin.Context) db.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.Query("size"))
	return db.Page{Number: page, Size: size}
}

// idParam reads a numeric path id. Anything else does not match a record.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}
