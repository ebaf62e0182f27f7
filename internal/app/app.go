package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/data/db"
	"github.com/yungbote/collab-backend/internal/http"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/logger"
	"github.com/yungbote/collab-backend/internal/realtime"
)

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Router     *gin.Engine
	Cfg        Config
	Repos      Repos
	Services   Services
	Clients    Clients
	Metrics    *observability.Metrics
	Middleware Middleware

	server       *http.Server
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode, logger.WithRedaction(cfg.LogRedaction, cfg.LogHashSalt))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Configuration loaded", "db_driver", cfg.DBDriver, "addr", cfg.Addr)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel())
	metrics := observability.Init(log, cfg.Metrics())

	theDB, err := db.Open(cfg.DB(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(theDB, log); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, metrics)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, cfg)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		Middleware:   middleware,
		server:       http.NewServer(cfg.Addr, router),
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background loops: metrics endpoint, pool collectors,
// limiter eviction and the realtime forwarder.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
	if a.Middleware.RateLimit != nil {
		a.Middleware.RateLimit.StartJanitor(ctx)
	}
	if a.Clients.Bus != nil {
		fwdLog := a.Log.With("service", "RealtimeForwarder")
		err := a.Clients.Bus.StartForwarder(ctx, func(ev realtime.Event) {
			fwdLog.Debug("realtime event", "event", ev.Type, "channel", ev.Channel)
		})
		if err != nil {
			a.Log.Warn("realtime forwarder not started", "error", err)
		}
	}
}

func (a *App) Run() error {
	if a == nil || a.server == nil {
		return errors.New("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr)
	return a.server.Run()
}

// Shutdown drains in-flight requests, then stops background loops and
// releases clients.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	err := a.server.Shutdown(ctx)
	a.Close()
	if a.otelShutdown != nil {
		if otelErr := a.otelShutdown(ctx); otelErr != nil {
			err = errors.Join(err, otelErr)
		}
	}
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
