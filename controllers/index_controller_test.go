package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"
	"Gin_postgres_redis_local_library/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounts models.CatalogCounts

func (f fixedCounts) CatalogCounts(context.Context) (models.CatalogCounts, error) {
	return models.CatalogCounts(f), nil
}

func indexRouter(t *testing.T, sessionID *string) *gin.Engine {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	counts := fixedCounts{NumBooks: 4, NumInstances: 9, NumInstancesAvailable: 3, NumAuthors: 2, NumGenres: 5}
	ic := NewIndexController(services.NewSummaryService(counts, session.NewAppSessionStore(rdb, time.Hour)))

	r := gin.New()
	r.Use(func(c *gin.Context) { app.SetCurrentUser(c, librarian, *sessionID) })
	r.GET("/api/catalog/", ic.Index)
	return r
}

func TestIndexCountsVisitsPerSession(t *testing.T) {
	sid := "sess-a"
	r := indexRouter(t, &sid)

	visits := func() int64 {
		w := get(r, "/api/catalog/")
		require.Equal(t, http.StatusOK, w.Code)
		var body services.Summary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, 4, body.NumBooks)
		assert.EqualValues(t, 9, body.NumInstances)
		assert.EqualValues(t, 3, body.NumInstancesAvailable)
		assert.EqualValues(t, 2, body.NumAuthors)
		assert.EqualValues(t, 5, body.NumGenres)
		return body.NumVisits
	}

	assert.EqualValues(t, 0, visits())
	assert.EqualValues(t, 1, visits())
	assert.EqualValues(t, 2, visits())

	sid = "sess-b"
	assert.EqualValues(t, 0, visits())
}

func TestIndexWithoutSession(t *testing.T) {
	sid := ""
	r := indexRouter(t, &sid)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/catalog/").Code)
}
