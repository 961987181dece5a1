package config

import (
	"context"
	"database/sql"

	"campus-canteen/logging"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

func MustInitPostgres(cfg PostgresConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		logging.Fatal().Err(err).Str("host", cfg.Host).Msg("failed to ping database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr()})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logging.Fatal().Err(err).Str("addr", cfg.Addr()).Msg("failed to connect to redis")
	}

	return client
}

func NewKafkaReader(cfg KafkaConfig, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   topic,
		GroupID: groupID,
	})
}

// NewKafkaWriter returns an async writer: WriteMessages never blocks the request
// path and delivery errors surface through the completion callback.
func NewKafkaWriter(cfg KafkaConfig, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.Broker),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logging.Warn().Err(err).Str("topic", topic).Int("messages", len(messages)).Msg("kafka delivery failed")
			}
		},
	}
}
