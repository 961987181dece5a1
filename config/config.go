package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the YAML config file location.
const PathEnvVar = "CONFIG_PATH"

var defaultPaths = []string{"config.yaml", "config.yml", "/etc/campus-canteen/config.yaml"}

type Config struct {
	Storage string `koanf:"storage" validate:"oneof=postgres memory"`
	// Seed loads the demo vendors and menus on startup.
	Seed     bool           `koanf:"seed"`
	HTTP     HTTPConfig     `koanf:"http"`
	Postgres PostgresConfig `koanf:"postgres"`
	Redis    RedisConfig    `koanf:"redis"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Booking  BookingConfig  `koanf:"booking"`
	Realtime RealtimeConfig `koanf:"realtime"`
	Admin    AdminConfig    `koanf:"admin"`
	Logging  LoggingConfig  `koanf:"logging"`
	Gateway  GatewayConfig  `koanf:"gateway"`
}

type HTTPConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	Name            string        `koanf:"name"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"sslmode"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN renders the lib/pq keyword/value connection string.
func (p PostgresConfig) DSN() string {
	return "host=" + p.Host + " port=" + p.Port + " user=" + p.User +
		" password=" + p.Password + " dbname=" + p.Name + " sslmode=" + p.SSLMode
}

type RedisConfig struct {
	Enabled bool   `koanf:"enabled"`
	Host    string `koanf:"host"`
	Port    string `koanf:"port"`
	// Channel carries realtime envelopes between order-svc replicas.
	Channel string `koanf:"channel"`
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type KafkaConfig struct {
	Enabled          bool   `koanf:"enabled"`
	Broker           string `koanf:"broker"`
	OrderEventsTopic string `koanf:"order_events_topic" validate:"required"`
	StatsGroupID     string `koanf:"stats_group_id"`
}

type BookingConfig struct {
	Timezone string `koanf:"timezone" validate:"required"`
	OpenAt   string `koanf:"open_at" validate:"required"`
	CloseAt  string `koanf:"close_at" validate:"required"`
	// Bypass keeps the window permanently open (test and demo environments).
	Bypass bool `koanf:"bypass"`
}

type RealtimeConfig struct {
	SendBuffer      int `koanf:"send_buffer" validate:"min=1"`
	BroadcastBuffer int `koanf:"broadcast_buffer" validate:"min=1"`
}

type AdminConfig struct {
	Key string `koanf:"key"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

type GatewayConfig struct {
	OrderSvcURL string `koanf:"order_svc_url"`
	StatsSvcURL string `koanf:"stats_svc_url"`
}

func defaultConfig() *Config {
	return &Config{
		Storage: "postgres",
		HTTP: HTTPConfig{
			Port:            4000,
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            "5432",
			Name:            "canteen",
			User:            "postgres",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    "6379",
			Channel: "canteen:realtime",
		},
		Kafka: KafkaConfig{
			Enabled:          false,
			Broker:           "localhost:9092",
			OrderEventsTopic: "order-events",
			StatsGroupID:     "stats-svc-consumer",
		},
		Booking: BookingConfig{
			Timezone: "Asia/Bangkok",
			OpenAt:   "08:00",
			CloseAt:  "10:00",
		},
		Realtime: RealtimeConfig{
			SendBuffer:      256,
			BroadcastBuffer: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Gateway: GatewayConfig{
			OrderSvcURL: "http://localhost:4000",
			StatsSvcURL: "http://localhost:4001",
		},
	}
}

// Load layers struct defaults, an optional YAML file and the environment, then validates.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitList(k, "http.allowed_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitList turns a comma separated env value into a string slice.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

var envMappings = map[string]string{
	"storage":        "storage",
	"seed_demo_data": "seed",

	"port":                  "http.port",
	"cors_origins":          "http.allowed_origins",
	"http_shutdown_timeout": "http.shutdown_timeout",

	"db_host":           "postgres.host",
	"db_port":           "postgres.port",
	"db_name":           "postgres.name",
	"db_user":           "postgres.user",
	"db_password":       "postgres.password",
	"db_sslmode":        "postgres.sslmode",
	"db_max_open_conns": "postgres.max_open_conns",
	"db_max_idle_conns": "postgres.max_idle_conns",

	"redis_enabled": "redis.enabled",
	"redis_host":    "redis.host",
	"redis_port":    "redis.port",
	"redis_channel": "redis.channel",

	"kafka_enabled":            "kafka.enabled",
	"kafka_broker":             "kafka.broker",
	"kafka_order_events_topic": "kafka.order_events_topic",
	"kafka_stats_group_id":     "kafka.stats_group_id",

	"booking_tz":            "booking.timezone",
	"booking_open_at":       "booking.open_at",
	"booking_close_at":      "booking.close_at",
	"bypass_booking_window": "booking.bypass",

	"ws_send_buffer":      "realtime.send_buffer",
	"ws_broadcast_buffer": "realtime.broadcast_buffer",

	"admin_key": "admin.key",

	"log_level":  "logging.level",
	"log_format": "logging.format",

	"order_svc_url": "gateway.order_svc_url",
	"stats_svc_url": "gateway.stats_svc_url",
}

// envTransformFunc maps known variables onto config paths and drops everything else.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
