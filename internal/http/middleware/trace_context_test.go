package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/collab-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/api/contracts", func(c *gin.Context) {
		seen, _ = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("honours client headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		req.Header.Set(headerRequestID, "req-42")
		req.Header.Set(headerTraceID, "trace-42")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if seen.RequestID != "req-42" || seen.TraceID != "trace-42" {
			t.Fatalf("unexpected trace data: %+v", seen)
		}
		if rec.Header().Get(headerRequestID) != "req-42" {
			t.Fatalf("request id not echoed: %q", rec.Header().Get(headerRequestID))
		}
	})

	t.Run("generates ids", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contracts", nil))

		if seen.RequestID == "" || seen.TraceID == "" {
			t.Fatalf("ids not generated: %+v", seen)
		}
		if rec.Header().Get(headerTraceID) != seen.TraceID {
			t.Fatalf("trace header %q does not match context %q", rec.Header().Get(headerTraceID), seen.TraceID)
		}
	})
}
