package service

import (
	"context"
	"fmt"
	"time"

	"campus-canteen/stats-svc/internal/domain"
)

// StatsService answers queries over the recorded statistics.
type StatsService struct {
	store StoreInterface
	loc   *time.Location
	now   func() time.Time
}

func NewStatsService(store StoreInterface, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{store: store, loc: loc, now: time.Now}
}

// WithClock replaces the clock used to resolve "today".
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// day resolves an optional YYYY-MM-DD date, defaulting to today in the
// service's timezone.
func (s *StatsService) day(date string) (string, error) {
	if date == "" {
		return s.now().In(s.loc).Format(time.DateOnly), nil
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidQuery)
	}
	return date, nil
}

func (s *StatsService) VendorDaily(ctx context.Context, vendorID, date string) (*domain.VendorDailyStats, error) {
	if vendorID == "" {
		return nil, fmt.Errorf("%w: vendor id is required", domain.ErrInvalidQuery)
	}
	day, err := s.day(date)
	if err != nil {
		return nil, err
	}
	return s.store.VendorDaily(ctx, vendorID, day)
}

func (s *StatsService) Leaderboard(ctx context.Context, date string, limit int) ([]domain.VendorRank, error) {
	if limit <= 0 || limit > 100 {
		return nil, fmt.Errorf("%w: limit must be between 1 and 100", domain.ErrInvalidQuery)
	}
	day, err := s.day(date)
	if err != nil {
		return nil, err
	}
	return s.store.TopVendors(ctx, day, limit)
}

var _ StatsInterface = (*StatsService)(nil)
