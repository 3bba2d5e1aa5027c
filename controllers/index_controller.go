package controllers

import (
	"net/http"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/services"

	"github.com/gin-gonic/gin"
)

type IndexController struct {
	summary *services.SummaryService
}

func NewIndexController(summary *services.SummaryService) *IndexController {
	return &IndexController{summary: summary}
}

// GET /api/catalog/
func (ic *IndexController) Index(c *gin.Context) {
	sid := app.CurrentSessionID(c)
	if sid == "" {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	s, err := ic.summary.Summary(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
