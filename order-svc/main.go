package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"campus-canteen/config"
	"campus-canteen/logging"
	httpapi "campus-canteen/order-svc/internal/api/http"
	"campus-canteen/order-svc/internal/booking"
	"campus-canteen/order-svc/internal/realtime"
	"campus-canteen/order-svc/internal/service"
	"campus-canteen/order-svc/internal/storage"
	"campus-canteen/supervisor"

	"github.com/thejerf/suture/v4"
)

type repository interface {
	service.OrderRepository
	service.MessageRepository
	service.CatalogRepository
	service.UserRepository
}

type app struct {
	handler  http.Handler
	services []suture.Service
	closers  []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logging.Warn().Err(err).Msg("close failed")
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	var repo repository
	switch cfg.Storage {
	case "memory":
		repo = storage.NewMemoryStore()
	default:
		db := config.MustInitPostgres(cfg.Postgres)
		a.closers = append(a.closers, db.Close)
		pg := storage.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, err
		}
		repo = pg
	}
	logging.Info().Str("storage", cfg.Storage).Msg("storage ready")

	if cfg.Seed {
		if err := storage.Seed(ctx, repo); err != nil {
			a.close()
			return nil, err
		}
		logging.Info().Msg("demo catalog seeded")
	}

	gate, err := booking.New(booking.Options{
		Timezone: cfg.Booking.Timezone,
		OpenAt:   cfg.Booking.OpenAt,
		CloseAt:  cfg.Booking.CloseAt,
		Bypass:   cfg.Booking.Bypass,
	})
	if err != nil {
		// the gate stays closed without a usable window or timezone
		logging.Error().Err(err).Msg("booking window misconfigured, ordering disabled")
	}
	if gate.TestMode() {
		logging.Warn().Msg("booking window bypassed")
	}

	hub := realtime.NewHub(realtime.Options{
		SendBuffer:      cfg.Realtime.SendBuffer,
		BroadcastBuffer: cfg.Realtime.BroadcastBuffer,
	})
	a.services = append(a.services, hub)

	if cfg.Redis.Enabled {
		rc := config.MustInitRedis(cfg.Redis)
		a.closers = append(a.closers, rc.Close)
		relay := realtime.NewRedisRelay(rc, cfg.Redis.Channel, hub, cfg.Realtime.BroadcastBuffer)
		hub.SetForwarder(relay)
		a.services = append(a.services, relay)
		logging.Info().Str("channel", cfg.Redis.Channel).Str("instance", relay.InstanceID()).Msg("realtime relay enabled")
	}

	var events service.EventPublisher
	if cfg.Kafka.Enabled {
		w := config.NewKafkaWriter(cfg.Kafka, cfg.Kafka.OrderEventsTopic)
		a.closers = append(a.closers, w.Close)
		events = storage.NewKafkaPublisher(w)
		logging.Info().Str("topic", cfg.Kafka.OrderEventsTopic).Msg("order event stream enabled")
	}

	catalog := service.NewCatalogService(repo, repo)
	orders := service.NewOrderService(repo, catalog, catalog, gate, hub, events)
	chat := service.NewChatService(repo, repo, hub)
	auth := service.NewAuthService(repo, cfg.Admin.Key)
	payments := service.NewPaymentService(repo, service.DefaultQRGenerator{})

	handler := httpapi.NewHandler(orders, chat, catalog, auth, payments, gate)
	ws := realtime.NewHandler(hub, chat, cfg.HTTP.AllowedOrigins)
	a.handler = httpapi.NewRouter(handler, ws, cfg.HTTP.AllowedOrigins)
	return a, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Service: "order-svc"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to start order-svc")
	}
	defer a.close()

	tree := supervisor.NewTree("order-svc", supervisor.TreeConfig{ShutdownTimeout: cfg.HTTP.ShutdownTimeout})
	for _, svc := range a.services {
		tree.Add(svc)
	}
	tree.Add(httpapi.NewServer(fmt.Sprintf(":%d", cfg.HTTP.Port), a.handler, cfg.HTTP.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("order-svc stopped with error")
	}
	logging.Info().Msg("order-svc stopped")
}
