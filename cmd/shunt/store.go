package main

import (
	"log/slog"

	"github.com/railyard/shunt/pkg/adapters/memory"
	redisadapter "github.com/railyard/shunt/pkg/adapters/redis"
	"github.com/railyard/shunt/pkg/persistence/middleware"
	"github.com/railyard/shunt/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// newRunStore builds the run record store from config: Redis when an
// address is configured, otherwise in-memory. Every store is wrapped with
// the logging middleware.
func newRunStore(cfg Config, logger *slog.Logger) ports.RunStore {
	var store ports.RunStore
	if cfg.Redis.Addr != "" {
		client := backend.NewClient(&backend.Options{Addr: cfg.Redis.Addr})

		var opts []redisadapter.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redisadapter.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redisadapter.WithTTL(cfg.Redis.TTL))
		}
		store = redisadapter.NewFromClient(client, opts...)
		logger.Debug("using redis run store", "addr", cfg.Redis.Addr)
	} else {
		store = memory.NewStore()
		logger.Debug("using in-memory run store")
	}

	return middleware.Wrap(store, middleware.NewLoggingMiddleware(logger))
}
