package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return router
}

func TestRateLimit_AllowsNormalRequests(t *testing.T) {
	router := rateLimitedRouter(NewRateLimiter(10, 10))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRateLimit_BlocksExcessiveRequests(t *testing.T) {
	router := rateLimitedRouter(NewRateLimiter(1, 2))

	var lastCode int
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		router.ServeHTTP(w, req)
		lastCode = w.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("expected status %d after burst, got %d", http.StatusTooManyRequests, lastCode)
	}
}

func TestRateLimit_SeparateIPs(t *testing.T) {
	router := rateLimitedRouter(NewRateLimiter(1, 1))

	// Exhaust the first IP's bucket.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.2:1000"
		router.ServeHTTP(w, req)
	}

	// A different IP still has its own budget.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.3:1000"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected fresh IP to pass, got %d", w.Code)
	}
}
