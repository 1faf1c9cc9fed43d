package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serveLogged(t *testing.T, level zapcore.Level, register func(*gin.Engine), method, target string) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w, recorded
}

func requestEntry(t *testing.T, recorded *observer.ObservedLogs) *observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			e := entry
			return &e
		}
	}
	t.Fatal("no HTTP Request entry logged")
	return nil
}

func TestGinMiddleware(t *testing.T) {
	t.Run("success logs at info with request fields", func(t *testing.T) {
		w, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
			r.GET("/orders", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})
		}, http.MethodGet, "/orders")

		require.Equal(t, http.StatusOK, w.Code)
		entry := requestEntry(t, recorded)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)

		fields := make(map[string]bool)
		for _, f := range entry.Context {
			fields[f.Key] = true
		}
		for _, key := range []string{"method", "path", "status", "latency", "client_ip", "user_agent", "body_size"} {
			assert.True(t, fields[key], "missing field %s", key)
		}
	})

	t.Run("client error logs at warn", func(t *testing.T) {
		_, recorded := serveLogged(t, zapcore.WarnLevel, func(r *gin.Engine) {
			r.GET("/bad", func(c *gin.Context) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			})
		}, http.MethodGet, "/bad")

		assert.Equal(t, zapcore.WarnLevel, requestEntry(t, recorded).Level)
	})

	t.Run("server error logs at error", func(t *testing.T) {
		_, recorded := serveLogged(t, zapcore.ErrorLevel, func(r *gin.Engine) {
			r.GET("/broken", func(c *gin.Context) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
			})
		}, http.MethodGet, "/broken")

		assert.Equal(t, zapcore.ErrorLevel, requestEntry(t, recorded).Level)
	})

	t.Run("query string is logged when present", func(t *testing.T) {
		_, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
			r.GET("/search", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{})
			})
		}, http.MethodGet, "/search?sku=WG-100&page=2")

		entry := requestEntry(t, recorded)
		var query string
		for _, f := range entry.Context {
			if f.Key == "query" {
				query = f.String
			}
		}
		assert.Contains(t, query, "sku=WG-100")
	})

	t.Run("request id from upstream middleware is carried", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		core, recorded := observer.New(zapcore.InfoLevel)

		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set(requestIDHeader, "req-42")
			c.Next()
		})
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		entry := requestEntry(t, recorded)
		var requestID string
		for _, f := range entry.Context {
			if f.Key == "request_id" {
				requestID = f.String
			}
		}
		assert.Equal(t, "req-42", requestID)
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("handler exploded")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := recorded.All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "Panic recovered", entries[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)
		var retrieved *zap.Logger

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/test", func(c *gin.Context) {
			retrieved = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.NotNil(t, retrieved)
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		var retrieved *zap.Logger

		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			retrieved = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NotNil(t, retrieved)
		assert.NotPanics(t, func() { retrieved.Info("no request logger") })
	})
}
