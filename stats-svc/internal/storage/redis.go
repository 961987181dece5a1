package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"campus-canteen/stats-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultRetention = 7 * 24 * time.Hour

var statusField = map[string]string{
	domain.StatusCreated:  "created",
	domain.StatusPaid:     "paid",
	domain.StatusAccepted: "accepted",
	domain.StatusRejected: "rejected",
}

// recordScript marks the event as seen and bumps the counters in one step so
// a redelivered event is never counted twice and a failed write is retried.
//
// KEYS: seen marker, daily hash, leaderboard
// ARGV: ttl seconds, field, revenue delta, vendor id, leaderboard delta
var recordScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], '1', 'NX', 'EX', ARGV[1]) then
	return 0
end
redis.call('HINCRBY', KEYS[2], ARGV[2], 1)
if tonumber(ARGV[3]) ~= 0 then
	redis.call('HINCRBY', KEYS[2], 'revenue', ARGV[3])
end
redis.call('EXPIRE', KEYS[2], ARGV[1])
if tonumber(ARGV[5]) ~= 0 then
	redis.call('ZINCRBY', KEYS[3], ARGV[5], ARGV[4])
	redis.call('EXPIRE', KEYS[3], ARGV[1])
end
return 1
`)

type Store struct {
	rdb       *redis.Client
	retention time.Duration
}

func NewStore(rdb *redis.Client, retention time.Duration) *Store {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Store{rdb: rdb, retention: retention}
}

func dailyKey(day, vendorID string) string { return "stats:daily:" + day + ":" + vendorID }
func leaderboardKey(day string) string     { return "stats:leaderboard:" + day }
func seenKey(evt domain.OrderEvent) string { return "stats:seen:" + evt.OrderID + ":" + evt.Status }

func (s *Store) Record(ctx context.Context, day string, evt domain.OrderEvent) (bool, error) {
	field, ok := statusField[evt.Status]
	if !ok {
		return false, fmt.Errorf("status %q is not counted", evt.Status)
	}
	var revenue, accepted int64
	switch evt.Status {
	case domain.StatusPaid:
		revenue = evt.Total
	case domain.StatusAccepted:
		accepted = 1
	}

	n, err := recordScript.Run(ctx, s.rdb,
		[]string{seenKey(evt), dailyKey(day, evt.VendorID), leaderboardKey(day)},
		int64(s.retention/time.Second), field, revenue, evt.VendorID, accepted,
	).Int()
	if err != nil {
		return false, fmt.Errorf("record %s for order %s: %w", evt.Status, evt.OrderID, err)
	}
	return n == 1, nil
}

func (s *Store) VendorDaily(ctx context.Context, vendorID, day string) (*domain.VendorDailyStats, error) {
	fields, err := s.rdb.HGetAll(ctx, dailyKey(day, vendorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load stats for %s: %w", vendorID, err)
	}
	stats := &domain.VendorDailyStats{VendorID: vendorID, Date: day}
	for name, dst := range map[string]*int64{
		"created":  &stats.Created,
		"paid":     &stats.Paid,
		"accepted": &stats.Accepted,
		"rejected": &stats.Rejected,
		"revenue":  &stats.Revenue,
	} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stats field %s: %w", name, err)
		}
		*dst = v
	}
	return stats, nil
}

func (s *Store) TopVendors(ctx context.Context, day string, limit int) ([]domain.VendorRank, error) {
	if limit <= 0 {
		return []domain.VendorRank{}, nil
	}
	res, err := s.rdb.ZRevRangeWithScores(ctx, leaderboardKey(day), 0, int64(limit-1)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	ranks := make([]domain.VendorRank, 0, len(res))
	for _, z := range res {
		member, _ := z.Member.(string)
		ranks = append(ranks, domain.VendorRank{VendorID: member, Accepted: int64(z.Score)})
	}
	return ranks, nil
}
