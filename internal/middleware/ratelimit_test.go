package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"jaspire-api/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.InitLogger()
}

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within the burst", func(t *testing.T) {
		r := newLimitedRouter(NewRateLimiter(10, 20))

		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/test", nil)
			req.Header.Set("X-Forwarded-For", "192.168.1.1")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("blocks requests exceeding the burst", func(t *testing.T) {
		r := newLimitedRouter(NewRateLimiter(1, 2))

		var lastCode int
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/test", nil)
			req.Header.Set("X-Forwarded-For", "192.168.1.2")
			r.ServeHTTP(w, req)
			lastCode = w.Code
		}

		assert.Equal(t, http.StatusTooManyRequests, lastCode)
	})

	t.Run("limits per user when authenticated", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		r := gin.New()
		user := "a"
		r.Use(func(c *gin.Context) {
			c.Set("userID", user)
			c.Next()
		})
		r.Use(rl.Middleware())
		r.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		// Same user is throttled.
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// A different user has a fresh bucket.
		user = "b"
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
