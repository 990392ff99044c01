package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *RedisCounter, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCounter(client), NewRedisStore(client, []byte("0123456789abcdef0123456789abcdef"))
}

func TestMemoryCounterWindow(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := c.Incr(ctx, "ip", 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, err := c.Incr(ctx, "other", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	time.Sleep(80 * time.Millisecond)
	n, err = c.Incr(ctx, "ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a closed window starts over")
}

func TestMemoryCounterPurge(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()
	_, _ = c.Incr(ctx, "short", 10*time.Millisecond)
	_, _ = c.Incr(ctx, "long", time.Hour)

	time.Sleep(30 * time.Millisecond)
	c.Purge()
	assert.Equal(t, 1, c.Len())
}

func TestRedisCounterWindow(t *testing.T) {
	mr, counter, _ := newMiniRedis(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := counter.Incr(ctx, "ip", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"counter:ip"))

	mr.FastForward(2 * time.Minute)
	n, err := counter.Incr(ctx, "ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr, _, store := newMiniRedis(t)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions("leadmap", store))
	engine.POST("/set", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set("user", 7)
		require.NoError(t, s.Save())
		c.Status(http.StatusNoContent)
	})
	engine.GET("/get", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": sessions.Default(c).Get("user")})
	})
	engine.POST("/clear", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Clear()
		s.Options(sessions.Options{Path: "/", MaxAge: -1})
		require.NoError(t, s.Save())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/set", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Len(t, mr.Keys(), 1)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user":7}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/clear", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Empty(t, mr.Keys())

	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())
}

func TestRedisStoreIgnoresForgedCookie(t *testing.T) {
	_, _, store := newMiniRedis(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "leadmap", Value: "forged"})
	session, err := store.New(req, "leadmap")
	require.NoError(t, err)
	assert.True(t, session.IsNew)
	assert.Empty(t, session.Values)
}
