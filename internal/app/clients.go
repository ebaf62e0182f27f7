package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/collab-backend/internal/platform/logger"
	"github.com/yungbote/collab-backend/internal/realtime/bus"
)

type Clients struct {
	// Redis is nil when REDIS_ADDR is unset; the bus then stays in process.
	Redis *goredis.Client
	Bus   bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Warn("REDIS_ADDR not set; realtime events stay in process")
		return Clients{Bus: bus.NewMemoryBus()}, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis event bus: %w", err)
	}
	return Clients{
		Redis: rdb,
		Bus:   bus.NewRedisBusFromClient(log, rdb, cfg.RedisChannel),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
}
