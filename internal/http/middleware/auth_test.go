package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/platform/ctxutil"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMiddleware(logger.Nop(), testSecret).RequireActor())
	r.GET("/whoami", func(c *gin.Context) {
		actor, ok := ctxutil.GetActor(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, actor)
	})
	return r
}

func call(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireActorResolvesClaims(t *testing.T) {
	r := authRouter(t)
	want := collab.Actor{ID: uuid.New(), Role: collab.RoleManager}
	token, err := SignActorToken(testSecret, want, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := call(r, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var got collab.Actor
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("actor: want=%+v got=%+v", want, got)
	}
}

func TestRequireActorRejects(t *testing.T) {
	r := authRouter(t)
	actor := collab.Actor{ID: uuid.New(), Role: collab.RoleBrand}

	expired, _ := SignActorToken(testSecret, actor, -time.Minute)
	wrongKey, _ := SignActorToken("other-secret", actor, time.Hour)
	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, ActorClaims{
		Role: "INTERN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, ActorClaims{
		Role:             "BRAND",
		RegisteredClaims: jwt.RegisteredClaims{Subject: actor.ID.String()},
	}).SignedString([]byte(testSecret))
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, ActorClaims{
		Role: "BRAND",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	for name, token := range map[string]string{
		"missing":     "",
		"garbage":     "abc.def.ghi",
		"expired":     expired,
		"wrong key":   wrongKey,
		"bad role":    badRole,
		"no expiry":   noExpiry,
		"bad subject": badSubject,
	} {
		rec := call(r, token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: want=%d got=%d", name, http.StatusUnauthorized, rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if body["success"] != false || body["code"] != "unauthorized" {
			t.Fatalf("%s: unexpected envelope %v", name, body)
		}
	}
}
