package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leavebot/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(b int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/chat", middleware.RateLimitByIP(1, b), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitByIP(t *testing.T) {
	t.Run("requests within the burst pass", func(t *testing.T) {
		router := newLimitedRouter(3)

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/chat", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("requests past the burst are rejected", func(t *testing.T) {
		router := newLimitedRouter(2)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/chat", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			router.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("limits are tracked per client", func(t *testing.T) {
		router := newLimitedRouter(1)

		first := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(first, req)
		assert.Equal(t, http.StatusOK, first.Code)

		exhausted := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(exhausted, req)
		assert.Equal(t, http.StatusTooManyRequests, exhausted.Code)

		other := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(other, req)
		assert.Equal(t, http.StatusOK, other.Code)
	})
}
