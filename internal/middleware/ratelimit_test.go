package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/auth"
)

func sessionFixture(userID string) *auth.Session {
	return &auth.Session{UserID: userID, Email: "u@example.com", Role: auth.RoleVendor}
}

// ---------------------------------------------------------------------------
// Config constructors
// ---------------------------------------------------------------------------

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerMinute != 200 {
		t.Errorf("RequestsPerMinute = %d, want 200", cfg.RequestsPerMinute)
	}
	if cfg.BurstSize != 50 {
		t.Errorf("BurstSize = %d, want 50", cfg.BurstSize)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want 5m", cfg.CleanupInterval)
	}
}

func TestAuthRateLimitConfig(t *testing.T) {
	cfg := AuthRateLimitConfig()
	if cfg.RequestsPerMinute != 10 {
		t.Errorf("RequestsPerMinute = %d, want 10", cfg.RequestsPerMinute)
	}
	if cfg.BurstSize != 5 {
		t.Errorf("BurstSize = %d, want 5", cfg.BurstSize)
	}
}

// ---------------------------------------------------------------------------
// MemoryLimiter.Allow
// ---------------------------------------------------------------------------

func newTestLimiter(rpm, burst int) *MemoryLimiter {
	return NewMemoryLimiter(RateLimitConfig{
		RequestsPerMinute: rpm,
		BurstSize:         burst,
		CleanupInterval:   time.Hour, // Don't clean up during tests
	})
}

func TestMemoryLimiter_NewClientGetsFullBurst(t *testing.T) {
	rl := newTestLimiter(60, 5)
	defer rl.Stop()

	allowed, remaining := rl.Allow(context.Background(), "client-a")
	if !allowed {
		t.Error("Allow() = false for new client, want true")
	}
	if remaining != 4 {
		t.Errorf("remaining = %d, want 4", remaining)
	}
}

func TestMemoryLimiter_AllowsUpToBurstSize(t *testing.T) {
	burst := 3
	rl := newTestLimiter(600, burst)
	defer rl.Stop()

	key := "burst-test"
	for i := 0; i < burst; i++ {
		if allowed, _ := rl.Allow(context.Background(), key); !allowed {
			t.Fatalf("Allow() = false on request %d, want true (burst %d)", i+1, burst)
		}
	}
}

func TestMemoryLimiter_BlocksAfterBurstExhausted(t *testing.T) {
	rl := newTestLimiter(1, 2) // 1 rpm means refill is negligible during the test
	defer rl.Stop()

	key := "exhaust-test"
	rl.Allow(context.Background(), key)
	rl.Allow(context.Background(), key)

	allowed, remaining := rl.Allow(context.Background(), key)
	if allowed {
		t.Error("Allow() = true after burst exhausted, want false")
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	rl := newTestLimiter(1, 1)
	defer rl.Stop()

	rl.Allow(context.Background(), "client-a")
	if allowed, _ := rl.Allow(context.Background(), "client-a"); allowed {
		t.Error("client-a should be exhausted")
	}
	if allowed, _ := rl.Allow(context.Background(), "client-b"); !allowed {
		t.Error("client-b should not be affected by client-a's usage")
	}
}

func TestMemoryLimiter_Limit(t *testing.T) {
	rl := newTestLimiter(42, 5)
	defer rl.Stop()

	if got := rl.Limit(); got != 42 {
		t.Errorf("Limit() = %d, want 42", got)
	}
}

// ---------------------------------------------------------------------------
// RateLimitMiddleware
// ---------------------------------------------------------------------------

func newRateLimitRouter(limiter Limiter) *gin.Engine {
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimitMiddleware_AllowsAndSetsHeaders(t *testing.T) {
	rl := newTestLimiter(60, 10)
	defer rl.Stop()

	r := newRateLimitRouter(rl)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.10:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "60" {
		t.Errorf("X-RateLimit-Limit = %q, want \"60\"", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != strconv.Itoa(9) {
		t.Errorf("X-RateLimit-Remaining = %q, want \"9\"", got)
	}
}

func TestRateLimitMiddleware_Returns429WhenExhausted(t *testing.T) {
	rl := newTestLimiter(1, 1)
	defer rl.Stop()

	r := newRateLimitRouter(rl)

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "203.0.113.20:1234"
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, first)
	if w1.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", w1.Code, http.StatusOK)
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "203.0.113.20:1234"
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, second)

	if w2.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", w2.Code, http.StatusTooManyRequests)
	}
	if got := w2.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want \"60\"", got)
	}
}

func TestGetRateLimitKey_PrefersSessionOverIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "203.0.113.30:1234"

	if key := getRateLimitKey(c); key != "ip:203.0.113.30" {
		t.Errorf("key = %q, want \"ip:203.0.113.30\"", key)
	}

	c.Set(SessionKey, sessionFixture("vendor-9"))
	if key := getRateLimitKey(c); key != "user:vendor-9" {
		t.Errorf("key = %q, want \"user:vendor-9\"", key)
	}
}
