package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emberquest/server/cache"
	"github.com/emberquest/server/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestSetup(t *testing.T) (*gin.Engine, cache.Cache, config.SecurityConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, err := cache.New(cache.Config{})
	require.NoError(t, err)
	sec := config.SecurityConfig{JWTSecret: testSecret, JWTTTLH: time.Hour}

	r := gin.New()
	r.GET("/me", Auth(sec, c), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"account_id": GetAccountID(ctx)})
	})
	return r, c, sec
}

func TestAuth_MissingToken(t *testing.T) {
	r, _, _ := authTestSetup(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	r, _, _ := authTestSetup(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_NoSession(t *testing.T) {
	r, _, sec := authTestSetup(t)
	token, err := GenerateToken(7, "hero", sec.JWTSecret, sec.JWTTTLH)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidSession(t *testing.T) {
	r, c, sec := authTestSetup(t)
	token, err := GenerateToken(7, "hero", sec.JWTSecret, sec.JWTTTLH)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), "session:"+token, "7", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account_id":7`)
}

func TestAdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminAuth("sekrit"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Admin-Key", "sekrit")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuth_DisabledWhenNoKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminAuth(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Admin-Key", "")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
