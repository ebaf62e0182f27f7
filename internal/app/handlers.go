package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/http"
	httpH "github.com/yungbote/collab-backend/internal/http/handlers"
	httpMW "github.com/yungbote/collab-backend/internal/http/middleware"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type Middleware struct {
	Auth      *httpMW.AuthMiddleware
	RateLimit *httpMW.RateLimiter
}

type Handlers struct {
	Health        *httpH.HealthHandler
	Collaboration *httpH.CollaborationHandler
	Contract      *httpH.ContractHandler
	Notification  *httpH.NotificationHandler
	Channel       *httpH.ChannelHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:        httpH.NewHealthHandler(db),
		Collaboration: httpH.NewCollaborationHandler(services.Lifecycle),
		Contract:      httpH.NewContractHandler(services.Lifecycle),
		Notification:  httpH.NewNotificationHandler(services.Notifier),
		Channel:       httpH.NewChannelHandler(services.Conversations),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	var limiter *httpMW.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpMW.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return Middleware{
		Auth:      httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
		RateLimit: limiter,
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                  log,
		Metrics:              metrics,
		ServiceName:          serviceName,
		CORSOrigins:          cfg.CORSOrigins,
		AuthMiddleware:       middleware.Auth,
		RateLimiter:          middleware.RateLimit,
		HealthHandler:        handlers.Health,
		CollaborationHandler: handlers.Collaboration,
		ContractHandler:      handlers.Contract,
		NotificationHandler:  handlers.Notification,
		ChannelHandler:       handlers.Channel,
	})
}
