// Command rebuild-indexes reconstructs the derived user-listings and
// conversation indexes from a full entity scan. Run it after an index append
// failure or a suspected lost update; the pass is idempotent.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/campusmarket/campus-market/internal/infrastructure/config"
	"github.com/campusmarket/campus-market/internal/infrastructure/db/kvstore"
	redisdb "github.com/campusmarket/campus-market/internal/infrastructure/db/redis"
	"github.com/campusmarket/campus-market/internal/infrastructure/rebuild"
	"github.com/campusmarket/campus-market/pkg/logger"
)

func main() {
	workers := flag.Int("workers", 0, "number of index writer workers (0 = default)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	kv := redisdb.NewStore(rdb)
	idx := kvstore.NewIndexMaintainer(kv, log)

	rebuilt, err := rebuild.NewRebuilder(kv, idx, *workers, log).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("rebuild failed")
	}
	log.Info().Int("indexes", rebuilt).Msg("rebuild complete")
}
