package service

import (
	"context"
	"time"

	"campus-canteen/order-svc/internal/domain"
)

// VendorDirectory resolves vendors. A missing vendor is reported as an error
// wrapping domain.ErrNotFound.
type VendorDirectory interface {
	GetVendor(ctx context.Context, id string) (*domain.Vendor, error)
}

// MenuCatalog resolves a menu item owned by the given vendor. Items of other
// vendors are reported as not found.
type MenuCatalog interface {
	GetMenuItem(ctx context.Context, itemID, vendorID string) (*domain.MenuItem, error)
}

// OrderRepository persists orders. Transition methods apply the lifecycle
// check and the write atomically and return the updated order.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id string, at time.Time) (*domain.Order, error)
	Accept(ctx context.Context, id string) (*domain.Order, error)
	Reject(ctx context.Context, id string) (*domain.Order, error)
	HasOpenOrders(ctx context.Context, vendorID string) (bool, error)
}

type MessageRepository interface {
	AppendMessage(ctx context.Context, m *domain.Message) error
	ListMessages(ctx context.Context, orderID string) ([]domain.Message, error)
}

type CatalogRepository interface {
	VendorDirectory
	MenuCatalog
	ListVendors(ctx context.Context, onlyApproved bool) ([]domain.Vendor, error)
	UpsertVendor(ctx context.Context, v *domain.Vendor) error
	SetVendorApproved(ctx context.Context, id string, approved bool) (*domain.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error
	ListMenuItems(ctx context.Context, vendorID string) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, itemID, vendorID string, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	SetMenuItemApproved(ctx context.Context, itemID string, approved bool) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, itemID, vendorID string) error
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	EnsureVendor(ctx context.Context, id, name string) error
}

// Notifier delivers an event to the members of a room. Implementations must
// not block.
type Notifier interface {
	Publish(room domain.Room, eventType string, payload any)
}

// EventPublisher writes lifecycle events to the order-events stream.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error
}

type BookingGate interface {
	IsOpen() bool
}

type OrderServiceInterface interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id string) (*domain.Order, error)
	Accept(ctx context.Context, id string) (*domain.Order, error)
	Reject(ctx context.Context, id string) (*domain.Order, error)
}

type ChatServiceInterface interface {
	Append(ctx context.Context, orderID, from, text string) (*domain.Message, error)
	ListSince(ctx context.Context, orderID string) ([]domain.Message, error)
}

type CatalogServiceInterface interface {
	ListVendors(ctx context.Context, onlyApproved bool) ([]domain.Vendor, error)
	UpsertVendor(ctx context.Context, in VendorInput) (*domain.Vendor, error)
	SetVendorApproved(ctx context.Context, id string, approved bool) (*domain.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error
	ListMenu(ctx context.Context, vendorID string) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, in MenuItemInput) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, itemID, vendorID string, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	SetMenuItemApproved(ctx context.Context, itemID string, approved bool) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, itemID, vendorID string) error
}

type AuthServiceInterface interface {
	Login(ctx context.Context, in LoginInput) (*domain.User, error)
	CheckAdminKey(key string) bool
}

type PaymentServiceInterface interface {
	PaymentQR(ctx context.Context, orderID string) ([]byte, error)
	PaymentQRDataURL(ctx context.Context, orderID string) (string, error)
}
