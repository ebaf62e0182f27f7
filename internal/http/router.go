package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/collab-backend/internal/http/handlers"
	httpMW "github.com/yungbote/collab-backend/internal/http/middleware"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware
	RateLimiter    *httpMW.RateLimiter

	CollaborationHandler *httpH.CollaborationHandler
	ContractHandler      *httpH.ContractHandler
	NotificationHandler  *httpH.NotificationHandler
	ChannelHandler       *httpH.ChannelHandler
	HealthHandler        *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireActor())
		}
		if cfg.RateLimiter != nil {
			protected.Use(cfg.RateLimiter.Middleware())
		}

		// Candidates and collaborations
		if h := cfg.CollaborationHandler; h != nil {
			protected.POST("/campaigns/:id/candidates", h.Invite)
			protected.GET("/campaigns/:id/candidates", h.ListForCampaign)
			protected.GET("/creators/:id/collaborations", h.ListForCreator)

			protected.GET("/collaborations/:id", h.Get)
			protected.POST("/collaborations/:id/respond", h.Respond)
			protected.PUT("/collaborations/:id/offer", h.UpsertOffer)
			protected.POST("/collaborations/:id/offer/finalize", h.FinalizeOffer)
			protected.POST("/collaborations/:id/reject", h.Reject)
			protected.PUT("/collaborations/:id/status", h.UpdateStatus)
			protected.POST("/collaborations/:id/complete", h.Complete)

			protected.POST("/collaborations/:id/deliverables/submit", h.SubmitDeliverable)
			protected.POST("/collaborations/:id/deliverables/:deliverableId/approve", h.ApproveDeliverable)
			protected.POST("/collaborations/:id/deliverables/:deliverableId/revision", h.RequestRevision)
		}

		// Contracts and escrow
		if h := cfg.ContractHandler; h != nil {
			protected.POST("/contracts/:id/fund", h.Fund)
			protected.POST("/contracts/:id/release", h.Release)
			protected.POST("/direct-hires", h.DirectHire)
		}

		// Inbox
		if h := cfg.NotificationHandler; h != nil {
			protected.GET("/notifications", h.List)
			protected.POST("/notifications/:id/read", h.MarkRead)
		}

		// Channels
		if h := cfg.ChannelHandler; h != nil {
			protected.GET("/channels/:id/messages", h.ListMessages)
			protected.POST("/channels/:id/messages", h.PostMessage)
		}
	}

	return r
}
