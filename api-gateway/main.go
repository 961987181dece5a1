package main

import (
	"fmt"
	"net/http"
	"time"

	"campus-canteen/api-gateway/internal/gateway"
	"campus-canteen/config"
	"campus-canteen/logging"

	"github.com/rs/cors"
)

func newHandler(cfg *config.Config, client gateway.HTTPClient) (http.Handler, error) {
	gw, err := gateway.NewGateway(gateway.Config{
		OrderSvcURL: cfg.Gateway.OrderSvcURL,
		StatsSvcURL: cfg.Gateway.StatsSvcURL,
	}, client)
	if err != nil {
		return nil, err
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(gw.SetupRoutes()), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Service: "api-gateway"})

	handler, err := newHandler(cfg, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid upstream configuration")
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	logging.Info().Str("addr", addr).
		Str("order_svc", cfg.Gateway.OrderSvcURL).
		Str("stats_svc", cfg.Gateway.StatsSvcURL).
		Msg("api gateway listening")
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal().Err(err).Msg("api gateway stopped")
	}
}
