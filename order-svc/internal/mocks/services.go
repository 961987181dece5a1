package mocks

import (
	"context"

	"campus-canteen/order-svc/internal/domain"
	"campus-canteen/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type OrderService struct {
	mock.Mock
}

func (_m *OrderService) Create(ctx context.Context, in service.CreateOrderInput) (*domain.Order, error) {
	ret := _m.Called(ctx, in)

	if rf, ok := ret.Get(0).(func(context.Context, service.CreateOrderInput) (*domain.Order, error)); ok {
		return rf(ctx, in)
	}

	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
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

func (_m *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
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

func (_m *OrderService) MarkPaid(ctx context.Context, id string) (*domain.Order, error) {
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

func (_m *OrderService) Accept(ctx context.Context, id string) (*domain.Order, error) {
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

func (_m *OrderService) Reject(ctx context.Context, id string) (*domain.Order, error) {
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

type ChatService struct {
	mock.Mock
}

func (_m *ChatService) Append(ctx context.Context, orderID string, from string, text string) (*domain.Message, error) {
	ret := _m.Called(ctx, orderID, from, text)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) (*domain.Message, error)); ok {
		return rf(ctx, orderID, from, text)
	}

	var r0 *domain.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Message)
	}
	return r0, ret.Error(1)
}

func (_m *ChatService) ListSince(ctx context.Context, orderID string) ([]domain.Message, error) {
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

type CatalogService struct {
	mock.Mock
}

func (_m *CatalogService) ListVendors(ctx context.Context, onlyApproved bool) ([]domain.Vendor, error) {
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

func (_m *CatalogService) UpsertVendor(ctx context.Context, in service.VendorInput) (*domain.Vendor, error) {
	ret := _m.Called(ctx, in)

	if rf, ok := ret.Get(0).(func(context.Context, service.VendorInput) (*domain.Vendor, error)); ok {
		return rf(ctx, in)
	}

	var r0 *domain.Vendor
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Vendor)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogService) SetVendorApproved(ctx context.Context, id string, approved bool) (*domain.Vendor, error) {
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

func (_m *CatalogService) DeleteVendor(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *CatalogService) ListMenu(ctx context.Context, vendorID string) ([]domain.MenuItem, error) {
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

func (_m *CatalogService) CreateMenuItem(ctx context.Context, in service.MenuItemInput) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, in)

	if rf, ok := ret.Get(0).(func(context.Context, service.MenuItemInput) (*domain.MenuItem, error)); ok {
		return rf(ctx, in)
	}

	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogService) UpdateMenuItem(ctx context.Context, itemID string, vendorID string, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
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

func (_m *CatalogService) SetMenuItemApproved(ctx context.Context, itemID string, approved bool) (*domain.MenuItem, error) {
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

func (_m *CatalogService) DeleteMenuItem(ctx context.Context, itemID string, vendorID string) error {
	ret := _m.Called(ctx, itemID, vendorID)
	return ret.Error(0)
}

type AuthService struct {
	mock.Mock
}

func (_m *AuthService) Login(ctx context.Context, in service.LoginInput) (*domain.User, error) {
	ret := _m.Called(ctx, in)

	if rf, ok := ret.Get(0).(func(context.Context, service.LoginInput) (*domain.User, error)); ok {
		return rf(ctx, in)
	}

	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *AuthService) CheckAdminKey(key string) bool {
	ret := _m.Called(key)
	return ret.Get(0).(bool)
}

type PaymentService struct {
	mock.Mock
}

func (_m *PaymentService) PaymentQR(ctx context.Context, orderID string) ([]byte, error) {
	ret := _m.Called(ctx, orderID)

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]byte, error)); ok {
		return rf(ctx, orderID)
	}

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func (_m *PaymentService) PaymentQRDataURL(ctx context.Context, orderID string) (string, error) {
	ret := _m.Called(ctx, orderID)

	if rf, ok := ret.Get(0).(func(context.Context, string) (string, error)); ok {
		return rf(ctx, orderID)
	}

	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}
	return r0, ret.Error(1)
}
