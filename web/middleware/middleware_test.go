package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/database/model"
	"github.com/leadmap/leadmap/web/cache"
	"github.com/leadmap/leadmap/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(engine *gin.Engine, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	engine := gin.New()
	limiter := RateLimitMiddleware(DefaultRateLimitConfig(2, cache.NewMemoryCounter()))
	engine.POST("/login", limiter, func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.POST("/register", limiter, func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := do(engine, http.MethodPost, "/login")
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := do(engine, http.MethodPost, "/login")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// budgets are per route
	w = do(engine, http.MethodPost, "/register")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitDisabled(t *testing.T) {
	engine := gin.New()
	engine.GET("/", RateLimitMiddleware(DefaultRateLimitConfig(0, nil)), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/").Code)
	}
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func TestRateLimitCounterFailureLetsRequestsThrough(t *testing.T) {
	engine := gin.New()
	engine.GET("/", RateLimitMiddleware(DefaultRateLimitConfig(1, failingCounter{})), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/").Code)
	}
}

func TestRequestLogger(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestLogger())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := do(engine, http.MethodGet, "/")
	id := w.Header().Get(requestIdHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIdHeader, incoming)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(requestIdHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIdHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(requestIdHeader))
}

func TestLoadUser(t *testing.T) {
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "leadmap.db")))
	t.Cleanup(func() { _ = database.CloseDB() })

	user := &model.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, database.GetDB().Create(user).Error)

	engine := gin.New()
	engine.Use(sessions.Sessions(session.CookieName, cookie.NewStore([]byte("test-secret"))))
	engine.Use(LoadUser())
	engine.POST("/login/:id", func(c *gin.Context) {
		var id int
		if c.Param("id") == "1" {
			id = user.Id
		} else {
			id = 999
		}
		require.NoError(t, session.SetLoginUser(c, id))
		c.Status(http.StatusNoContent)
	})
	engine.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetLoginUser(c)})
	})

	assert.JSONEq(t, `{"user":null}`, do(engine, http.MethodGet, "/me").Body.String())

	w := do(engine, http.MethodPost, "/login/1")
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	w = do(engine, http.MethodGet, "/me", cookies...)
	assert.JSONEq(t, `{"user":{"id":1,"username":"alice"}}`, w.Body.String())

	// a session pointing at a missing account is dropped
	w = do(engine, http.MethodPost, "/login/2")
	stale := w.Result().Cookies()
	w = do(engine, http.MethodGet, "/me", stale...)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())
	expired := w.Result().Cookies()
	require.NotEmpty(t, expired)
	assert.Less(t, expired[0].MaxAge, 0)
}
