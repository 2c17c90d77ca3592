package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusmarket/campus-market/internal/api"
	"github.com/campusmarket/campus-market/internal/infrastructure/config"
	mongodb "github.com/campusmarket/campus-market/internal/infrastructure/db/mongo"
	redisdb "github.com/campusmarket/campus-market/internal/infrastructure/db/redis"
	"github.com/campusmarket/campus-market/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

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

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.NewAccountRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	e := api.NewRouter(db, rdb, cfg)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
