package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Tasker/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type App struct {
	cfg    config.Config
	log    *logrus.Logger
	store  Store
	redis  *redis.Client
	router *gin.Engine
}

// New connects the configured store and, if configured, Redis, applies the
// Postgres migrations when enabled and builds the router.
func New(ctx context.Context, cfg config.Config, log *logrus.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	if cfg.Store.Driver == config.DriverPostgres && cfg.PG.AutoMigrate {
		if err := Migrate(ctx, cfg.PG.DSN, "up", log); err != nil {
			return nil, err
		}
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.store = store

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		a.redis = rdb
	} else {
		log.Warn("REDIS_ADDR not set: sessions and caching disabled")
	}

	router, err := NewRouter(Deps{Config: cfg, Log: log, Store: store, Redis: a.redis})
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.router = router
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if err := a.store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	return errors.Join(errs...)
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
