package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"student-records/internal/redis"
	"student-records/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.RequestIdKey).(string)
		c.String(http.StatusOK, id)
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	l := &logger.Logger{Logger: zap.New(core)}

	r := gin.New()
	r.Use(ErrorHandler(l))
	r.GET("/unwritten", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(errors.New("not found"))
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unwritten", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"boom","code":"INTERNAL_ERROR"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Student not found"}`, w.Body.String())

	assert.Equal(t, 2, logs.FilterMessage("request error").Len())
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	l := &logger.Logger{Logger: zap.New(core)}

	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggingMiddleware(l))
	r.GET("/students", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/students", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	newRouter := func(origins []string) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware(origins))
		r.GET("/students", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/students", nil)
		req.Header.Set("Origin", "http://ui.test")
		w := httptest.NewRecorder()
		newRouter([]string{"*"}).ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/students", nil)
		req.Header.Set("Origin", "http://ui.test")
		w := httptest.NewRecorder()
		newRouter([]string{"http://ui.test"}).ServeHTTP(w, req)

		assert.Equal(t, "http://ui.test", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/students", nil)
		req.Header.Set("Origin", "http://evil.test")
		w := httptest.NewRecorder()
		newRouter([]string{"http://ui.test"}).ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/students", nil)
		req.Header.Set("Origin", "http://ui.test")
		w := httptest.NewRecorder()
		newRouter([]string{"*"}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	})
}

func TestWriteRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := redis.NewRateLimiter(client, redis.RateLimitConfig{WriteLimit: 2, WriteWindow: time.Minute})

	r := gin.New()
	r.Use(WriteRateLimitMiddleware(limiter))
	r.GET("/students", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/students", func(c *gin.Context) { c.Status(http.StatusCreated) })

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/students", strings.NewReader("")))
		return w
	}

	assert.Equal(t, http.StatusCreated, post().Code)
	w := post()
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	for range 5 {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	require.NoError(t, limiter.ResetWrites(context.Background(), "192.0.2.1"))
	assert.Equal(t, http.StatusCreated, post().Code)
}

func TestBodyLimitMiddleware(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(BodyLimitMiddleware(8))
	r.POST("/students", func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	send := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("name=A"))
	assert.Equal(t, http.StatusBadRequest, send("name=Ann&address=Main+St"))
}

func TestMetricsMiddleware_RouteLabel(t *testing.T) {
	t.Parallel()

	var label string
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.Use(func(c *gin.Context) {
		c.Next()
		label = routeLabel(c)
	})
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students/42", nil))
	assert.Equal(t, "/students/:id", label)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
