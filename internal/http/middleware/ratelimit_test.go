package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/platform/ctxutil"
)

func limitedRouter(rl *RateLimiter, actor *collab.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if actor != nil {
		a := *actor
		r.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(ctxutil.WithActor(c.Request.Context(), a))
			c.Next()
		})
	}
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func hit(r *gin.Engine) int {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return rec.Code
}

func TestRateLimiterPerActor(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	alice := collab.Actor{ID: uuid.New(), Role: collab.RoleBrand}
	bob := collab.Actor{ID: uuid.New(), Role: collab.RoleBrand}
	ra := limitedRouter(rl, &alice)
	rb := limitedRouter(rl, &bob)

	for i := 0; i < 2; i++ {
		if code := hit(ra); code != http.StatusNoContent {
			t.Fatalf("request %d: want=%d got=%d", i, http.StatusNoContent, code)
		}
	}
	if code := hit(ra); code != http.StatusTooManyRequests {
		t.Fatalf("burst exhausted: want=%d got=%d", http.StatusTooManyRequests, code)
	}
	if code := hit(rb); code != http.StatusNoContent {
		t.Fatalf("other actor has its own bucket: want=%d got=%d", http.StatusNoContent, code)
	}
}

func TestRateLimiterDisabledAndEviction(t *testing.T) {
	off := limitedRouter(NewRateLimiter(0, 1), nil)
	for i := 0; i < 5; i++ {
		if code := hit(off); code != http.StatusNoContent {
			t.Fatalf("disabled limiter blocked request %d", i)
		}
	}

	rl := NewRateLimiter(1, 1)
	clock := time.Now()
	rl.now = func() time.Time { return clock }
	rl.limiterFor("actor:x")
	clock = clock.Add(visitorTTL + time.Second)
	rl.evict()
	if len(rl.visitors) != 0 {
		t.Fatalf("idle visitor not evicted: %d left", len(rl.visitors))
	}
}
