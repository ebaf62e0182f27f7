package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/domain/collab"
	"github.com/yungbote/collab-backend/internal/http/response"
	"github.com/yungbote/collab-backend/internal/platform/ctxutil"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

// ActorClaims is what the session service signs: the user id as subject
// plus the marketplace role.
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), secret: []byte(secret)}
}

// RequireActor resolves the bearer token into a collab.Actor and stores it
// on the request context.
func (am *AuthMiddleware) RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		actor, err := am.ParseActor(tokenString)
		if err != nil {
			am.log.Debug("rejected token", "error", err)
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid or expired token"))
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithActor(c.Request.Context(), actor))
		c.Set("actor_id", actor.ID.String())
		c.Next()
	}
}

func (am *AuthMiddleware) ParseActor(tokenString string) (collab.Actor, error) {
	if len(am.secret) == 0 {
		return collab.Actor{}, errors.New("jwt secret not configured")
	}
	claims := &ActorClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return collab.Actor{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return collab.Actor{}, errors.New("invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return collab.Actor{}, fmt.Errorf("invalid subject: %w", err)
	}
	role, ok := collab.ParseRole(claims.Role)
	if !ok {
		return collab.Actor{}, fmt.Errorf("unknown role %q", claims.Role)
	}
	return collab.Actor{ID: userID, Role: role}, nil
}

// SignActorToken issues an HS256 token for actor. Used by the devtoken
// command and tests; production tokens come from the session service.
func SignActorToken(secret string, actor collab.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ActorClaims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
