package mocks

import (
	"context"

	"campus-canteen/stats-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) Record(ctx context.Context, day string, evt domain.OrderEvent) (bool, error) {
	ret := _m.Called(ctx, day, evt)

	if rf, ok := ret.Get(0).(func(context.Context, string, domain.OrderEvent) (bool, error)); ok {
		return rf(ctx, day, evt)
	}
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) VendorDaily(ctx context.Context, vendorID, day string) (*domain.VendorDailyStats, error) {
	ret := _m.Called(ctx, vendorID, day)

	var r0 *domain.VendorDailyStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.VendorDailyStats)
	}
	return r0, ret.Error(1)
}

func (_m *StoreInterface) TopVendors(ctx context.Context, day string, limit int) ([]domain.VendorRank, error) {
	ret := _m.Called(ctx, day, limit)

	var r0 []domain.VendorRank
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.VendorRank)
	}
	return r0, ret.Error(1)
}

// NewStoreInterface registers AssertExpectations on test cleanup.
func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type StatsInterface struct {
	mock.Mock
}

func (_m *StatsInterface) VendorDaily(ctx context.Context, vendorID, date string) (*domain.VendorDailyStats, error) {
	ret := _m.Called(ctx, vendorID, date)

	var r0 *domain.VendorDailyStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.VendorDailyStats)
	}
	return r0, ret.Error(1)
}

func (_m *StatsInterface) Leaderboard(ctx context.Context, date string, limit int) ([]domain.VendorRank, error) {
	ret := _m.Called(ctx, date, limit)

	var r0 []domain.VendorRank
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.VendorRank)
	}
	return r0, ret.Error(1)
}

func NewStatsInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatsInterface {
	m := &StatsInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
