package mocks

import (
	"context"
	"time"

	"campus-canteen/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func (_m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	ret := _m.Called(ctx, order)
	return ret.Error(0)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) (*domain.Order, error)); ok {
		return rf(ctx, id)
	}

	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ret := _m.Called(ctx, filter)

	if rf, ok := ret.Get(0).(func(context.Context, domain.OrderFilter) ([]domain.Order, error)); ok {
		return rf(ctx, filter)
	}

	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) MarkPaid(ctx context.Context, id string, at time.Time) (*domain.Order, error) {
	ret := _m.Called(ctx, id, at)

	if rf, ok := ret.Get(0).(func(context.Context, string, time.Time) (*domain.Order, error)); ok {
		return rf(ctx, id, at)
	}

	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) Accept(ctx context.Context, id string) (*domain.Order, error) {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) (*domain.Order, error)); ok {
		return rf(ctx, id)
	}

	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) Reject(ctx context.Context, id string) (*domain.Order, error) {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) (*domain.Order, error)); ok {
		return rf(ctx, id)
	}

	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) HasOpenOrders(ctx context.Context, vendorID string) (bool, error) {
	ret := _m.Called(ctx, vendorID)

	if rf, ok := ret.Get(0).(func(context.Context, string) (bool, error)); ok {
		return rf(ctx, vendorID)
	}

	var r0 bool
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(bool)
	}
	return r0, ret.Error(1)
}

type MessageRepository struct {
	mock.Mock
}

func (_m *MessageRepository) AppendMessage(ctx context.Context, m *domain.Message) error {
	ret := _m.Called(ctx, m)
	return ret.Error(0)
}

func (_m *MessageRepository) ListMessages(ctx context.Context, orderID string) ([]domain.Message, error) {
	ret := _m.Called(ctx, orderID)

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]domain.Message, error)); ok {
		return rf(ctx, orderID)
	}

	var r0 []domain.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Message)
	}
	return r0, ret.Error(1)
}

type CatalogRepository struct {
	mock.Mock
}

func (_m *CatalogRepository) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) (*domain.Vendor, error)); ok {
		return rf(ctx, id)
	}

	var r0 *domain.Vendor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Vendor)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) GetMenuItem(ctx context.Context, itemID string, vendorID string) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, itemID, vendorID)

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*domain.MenuItem, error)); ok {
		return rf(ctx, itemID, vendorID)
	}

	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) ListVendors(ctx context.Context, onlyApproved bool) ([]domain.Vendor, error) {
	ret := _m.Called(ctx, onlyApproved)

	if rf, ok := ret.Get(0).(func(context.Context, bool) ([]domain.Vendor, error)); ok {
		return rf(ctx, onlyApproved)
	}

	var r0 []domain.Vendor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Vendor)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) UpsertVendor(ctx context.Context, v *domain.Vendor) error {
	ret := _m.Called(ctx, v)
	return ret.Error(0)
}

func (_m *CatalogRepository) SetVendorApproved(ctx context.Context, id string, approved bool) (*domain.Vendor, error) {
	ret := _m.Called(ctx, id, approved)

	if rf, ok := ret.Get(0).(func(context.Context, string, bool) (*domain.Vendor, error)); ok {
		return rf(ctx, id, approved)
	}

	var r0 *domain.Vendor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Vendor)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) DeleteVendor(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *CatalogRepository) ListMenuItems(ctx context.Context, vendorID string) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, vendorID)

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]domain.MenuItem, error)); ok {
		return rf(ctx, vendorID)
	}

	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) CreateMenuItem(ctx context.Context, m *domain.MenuItem) error {
	ret := _m.Called(ctx, m)
	return ret.Error(0)
}

func (_m *CatalogRepository) UpdateMenuItem(ctx context.Context, itemID string, vendorID string, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, itemID, vendorID, patch)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, domain.MenuItemPatch) (*domain.MenuItem, error)); ok {
		return rf(ctx, itemID, vendorID, patch)
	}

	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) SetMenuItemApproved(ctx context.Context, itemID string, approved bool) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, itemID, approved)

	if rf, ok := ret.Get(0).(func(context.Context, string, bool) (*domain.MenuItem, error)); ok {
		return rf(ctx, itemID, approved)
	}

	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) DeleteMenuItem(ctx context.Context, itemID string, vendorID string) error {
	ret := _m.Called(ctx, itemID, vendorID)
	return ret.Error(0)
}

type UserRepository struct {
	mock.Mock
}

func (_m *UserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) (*domain.User, error)); ok {
		return rf(ctx, id)
	}

	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	ret := _m.Called(ctx, u)
	return ret.Error(0)
}

func (_m *UserRepository) EnsureVendor(ctx context.Context, id string, name string) error {
	ret := _m.Called(ctx, id, name)
	return ret.Error(0)
}
