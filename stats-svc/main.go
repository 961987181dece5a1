package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"campus-canteen/config"
	"campus-canteen/logging"
	httpapi "campus-canteen/stats-svc/internal/api/http"
	"campus-canteen/stats-svc/internal/service"
	"campus-canteen/stats-svc/internal/storage"
	"campus-canteen/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Service: "stats-svc"})

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		logging.Warn().Err(err).Str("timezone", cfg.Booking.Timezone).Msg("unknown timezone, bucketing days in UTC")
		loc = time.UTC
	}

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()
	store := storage.NewStore(rdb, 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree := supervisor.NewTree("stats-svc", supervisor.TreeConfig{ShutdownTimeout: cfg.HTTP.ShutdownTimeout})

	if cfg.Kafka.Enabled {
		reader := config.NewKafkaReader(cfg.Kafka, cfg.Kafka.OrderEventsTopic, cfg.Kafka.StatsGroupID)
		defer reader.Close()
		tree.Add(service.NewConsumer(reader, store, loc))
	} else {
		logging.Warn().Msg("kafka disabled, statistics will not be updated")
	}

	handler := httpapi.NewHandler(service.NewStatsService(store, loc))
	router := httpapi.NewRouter(handler, cfg.HTTP.AllowedOrigins)
	tree.Add(httpapi.NewServer(fmt.Sprintf(":%d", cfg.HTTP.Port), router, cfg.HTTP.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("stats-svc stopped with error")
	}
	logging.Info().Msg("stats-svc stopped")
}
