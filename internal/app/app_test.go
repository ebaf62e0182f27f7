package app

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/domain/collab"
	httpMW "github.com/yungbote/collab-backend/internal/http/middleware"
)

func TestNewWiresSQLiteStack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	t.Setenv("JWT_SECRET_KEY", "app-test-secret")
	t.Setenv("RATE_LIMIT_RPS", "0")

	a, err := New(context.Background())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)

	if a.Services.Lifecycle == nil || a.Services.Notifier == nil || a.Services.Conversations == nil {
		t.Fatal("services not wired")
	}
	if a.Clients.Bus == nil || a.Clients.Redis != nil {
		t.Fatal("expected in-process bus without REDIS_ADDR")
	}
	if a.Middleware.RateLimit != nil {
		t.Fatal("rate limiter should be off when RATE_LIMIT_RPS=0")
	}
	a.Start()

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/healthcheck", nil))
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("healthcheck: want=200 got=%d", rec.Code)
	}

	token, err := httpMW.SignActorToken("app-test-secret", collab.Actor{ID: uuid.New(), Role: collab.RoleCreator}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(nethttp.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("notifications: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	var env struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || !env.Success {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
