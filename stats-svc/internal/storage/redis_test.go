package storage

import (
	"context"
	"testing"
	"time"

	"campus-canteen/stats-svc/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, 0), mr
}

func event(orderID, vendorID, status string, total int64) domain.OrderEvent {
	return domain.OrderEvent{OrderID: orderID, VendorID: vendorID, Status: status, Total: total}
}

func TestStore_RecordLifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := setupStore(t)
	day := "2026-03-02"

	for _, evt := range []domain.OrderEvent{
		event("ord_1", "V001", domain.StatusCreated, 80),
		event("ord_1", "V001", domain.StatusPaid, 80),
		event("ord_1", "V001", domain.StatusAccepted, 80),
		event("ord_2", "V001", domain.StatusCreated, 45),
		event("ord_2", "V001", domain.StatusPaid, 45),
		event("ord_2", "V001", domain.StatusRejected, 45),
	} {
		applied, err := s.Record(ctx, day, evt)
		require.NoError(t, err)
		assert.True(t, applied)
	}

	stats, err := s.VendorDaily(ctx, "V001", day)
	require.NoError(t, err)
	assert.Equal(t, &domain.VendorDailyStats{
		VendorID: "V001",
		Date:     day,
		Created:  2,
		Paid:     2,
		Accepted: 1,
		Rejected: 1,
		Revenue:  125,
	}, stats)

	assert.Equal(t, defaultRetention, mr.TTL(dailyKey(day, "V001")))
}

func TestStore_RedeliveryCountsOnce(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)
	evt := event("ord_1", "V001", domain.StatusPaid, 80)

	applied, err := s.Record(ctx, "2026-03-02", evt)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.Record(ctx, "2026-03-02", evt)
	require.NoError(t, err)
	assert.False(t, applied)

	stats, err := s.VendorDaily(ctx, "V001", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Paid)
	assert.Equal(t, int64(80), stats.Revenue)
}

func TestStore_UncountedStatus(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.Record(context.Background(), "2026-03-02", event("ord_1", "V001", "cooking", 0))

	assert.Error(t, err)
}

func TestStore_TopVendors(t *testing.T) {
	ctx := context.Background()
	s, _ := setupStore(t)
	day := "2026-03-02"

	accept := func(orderID, vendorID string) {
		_, err := s.Record(ctx, day, event(orderID, vendorID, domain.StatusAccepted, 0))
		require.NoError(t, err)
	}
	accept("ord_1", "V001")
	accept("ord_2", "V002")
	accept("ord_3", "V002")
	accept("ord_4", "V003")
	accept("ord_5", "V002")
	accept("ord_6", "V001")

	top, err := s.TopVendors(ctx, day, 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.VendorRank{
		{VendorID: "V002", Accepted: 3},
		{VendorID: "V001", Accepted: 2},
	}, top)

	other, err := s.TopVendors(ctx, "2026-03-03", 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_EmptyDay(t *testing.T) {
	s, _ := setupStore(t)

	stats, err := s.VendorDaily(context.Background(), "V009", "2026-03-02")

	require.NoError(t, err)
	assert.Equal(t, &domain.VendorDailyStats{VendorID: "V009", Date: "2026-03-02"}, stats)
}

func TestStore_RetentionOverride(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	s := NewStore(rdb, time.Hour)

	_, err := s.Record(context.Background(), "2026-03-02", event("ord_1", "V001", domain.StatusAccepted, 0))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, mr.TTL(leaderboardKey("2026-03-02")))
}
