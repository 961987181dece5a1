package service

import (
	"context"

	"campus-canteen/stats-svc/internal/domain"
	"campus-canteen/stats-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type StoreInterface interface {
	// Record applies evt to the day's counters once; a redelivered event
	// reports applied=false.
	Record(ctx context.Context, day string, evt domain.OrderEvent) (applied bool, err error)
	VendorDaily(ctx context.Context, vendorID, day string) (*domain.VendorDailyStats, error)
	TopVendors(ctx context.Context, day string, limit int) ([]domain.VendorRank, error)
}

type StatsInterface interface {
	VendorDaily(ctx context.Context, vendorID, date string) (*domain.VendorDailyStats, error)
	Leaderboard(ctx context.Context, date string, limit int) ([]domain.VendorRank, error)
}

var (
	_ StoreInterface = (*storage.Store)(nil)
	_ MessageReader  = (*kafka.Reader)(nil)
)
