package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"Gin_postgres_redis_local_library/services"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorStatus(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", services.NewValidationError("isbn", "bad"), http.StatusBadRequest},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", pkgerrors.Wrap(services.ErrNotFound, "load"), http.StatusNotFound},
		{"unauthenticated", services.ErrUnauthenticated, http.StatusUnauthorized},
		{"denied", services.ErrPermissionDenied, http.StatusForbidden},
		{"conflict", services.ErrConflict, http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestWriteErrorNamesField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(c, services.NewValidationError("isbn", "ISBN must have 13 characters."))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "isbn", body["field"])
	assert.Equal(t, "ISBN must have 13 characters.", body["error"])
}

func TestPageParam(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&size=abc", nil)

	p := pageParam(c)
	assert.Equal(t, 3, p.Number)
	assert.Zero(t, p.Size)
}
