package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/controllers"
	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"
	"Gin_postgres_redis_local_library/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

const copyID = "0b6f4c7e-2f1d-4c1a-9e7a-3d5b6c7d8e9f"

// countingStore backs both the renewal service and the borrowed lists and
// counts every read and write.
type countingStore struct {
	reads, writes int
}

func (s *countingStore) FindInstanceByID(_ context.Context, id string) (*models.BookInstance, error) {
	s.reads++
	due := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	return &models.BookInstance{ID: id, BookID: 1, Status: models.StatusOnLoan, DueBack: &due}, nil
}

func (s *countingStore) SetInstanceDueBack(context.Context, string, time.Time) error {
	s.writes++
	return nil
}

func (s *countingStore) ListBorrowed(context.Context, string, db.Page) (*db.Paged[models.BookInstance], error) {
	s.reads++
	return &db.Paged[models.BookInstance]{Page: 1, NumPages: 1, Results: []models.BookInstance{}}, nil
}

type userMap map[string]*models.User

func (m userMap) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, services.ErrNotFound
}

var (
	member    = &models.User{ID: "u-member", Username: "member@example.com"}
	librarian = &models.User{ID: "u-lib", Username: "lib@example.com", Permissions: []string{models.PermCanMarkReturned}}
	editor    = &models.User{ID: "u-editor", Username: "editor@example.com", Permissions: []string{models.PermAdd(models.ModelAuthor)}}
)

// catalogRouter mounts the catalog group the way RegisterRoutes does, with
// real session authentication over miniredis.
func catalogRouter(t *testing.T, mount func(cat *gin.RouterGroup, perm func(string) gin.HandlerFunc)) *gin.Engine {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions := session.NewAppSessionStore(rdb, time.Hour)
	users := userMap{}
	for _, u := range []*models.User{member, librarian, editor} {
		users[u.ID] = u
		require.NoError(t, sessions.Create(context.Background(), "sess-"+u.ID, u.ID))
	}

	r := gin.New()
	cat := r.Group("/api/catalog", app.AuthRequired(sessions, users))
	mount(cat, permissionFor(app.Config{}))
	return r
}

func call(r http.Handler, method, path, body string, u *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if u != nil {
		req.AddCookie(&http.Cookie{Name: app.AppSessionCookie, Value: "sess-" + u.ID})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loanRoutes(t *testing.T, store *countingStore) *gin.Engine {
	renewals := services.NewRenewalService(store, time.UTC).
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) })
	loans := controllers.NewLoanController(renewals, store)
	return catalogRouter(t, func(cat *gin.RouterGroup, perm func(string) gin.HandlerFunc) {
		mountLoans(cat, perm, loans)
	})
}

var guardedLoanRoutes = []struct {
	method, path, body string
	allowed            int
}{
	{http.MethodGet, "/api/catalog/borrowed", "", http.StatusOK},
	{http.MethodGet, "/api/catalog/book/" + copyID + "/renew", "", http.StatusOK},
	{http.MethodPost, "/api/catalog/book/" + copyID + "/renew", `{"renewal_date":"2024-06-10"}`, http.StatusSeeOther},
}

func TestLoanRoutesRejectBeforeReading(t *testing.T) {
	for _, rt := range guardedLoanRoutes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			store := &countingStore{}
			r := loanRoutes(t, store)

			assert.Equal(t, http.StatusUnauthorized, call(r, rt.method, rt.path, rt.body, nil).Code)
			assert.Equal(t, http.StatusForbidden, call(r, rt.method, rt.path, rt.body, member).Code)
			assert.Zero(t, store.reads)
			assert.Zero(t, store.writes)
		})
	}
}

func TestLoanRoutesAllowMarker(t *testing.T) {
	for _, rt := range guardedLoanRoutes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			store := &countingStore{}
			r := loanRoutes(t, store)

			assert.Equal(t, rt.allowed, call(r, rt.method, rt.path, rt.body, librarian).Code)
			assert.Equal(t, 1, store.reads)
		})
	}
}

func TestMyBooksNeedsOnlyLogin(t *testing.T) {
	store := &countingStore{}
	r := loanRoutes(t, store)

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/catalog/mybooks", "", nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/catalog/mybooks", "", member).Code)
	assert.Equal(t, 1, store.reads)
}

func TestCrudWritesNeedModelPermission(t *testing.T) {
	var reached []string
	stub := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			reached = append(reached, name)
			c.Status(http.StatusOK)
		}
	}
	r := catalogRouter(t, func(cat *gin.RouterGroup, perm func(string) gin.HandlerFunc) {
		crud(cat, "/authors", models.ModelAuthor, perm, resource{
			list: stub("list"), get: stub("get"),
			create: stub("create"), update: stub("update"), remove: stub("remove"),
		})
	})

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/catalog/authors", "", member).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/catalog/authors/1", "", member).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/catalog/authors", "{}", member).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPut, "/api/catalog/authors/1", "{}", editor).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodDelete, "/api/catalog/authors/1", "", editor).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/catalog/authors", "{}", editor).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/catalog/authors", "", nil).Code)

	assert.Equal(t, []string{"list", "get", "create"}, reached)
}
