package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-canteen/logging"
	"campus-canteen/order-svc/internal/domain"
	"campus-canteen/order-svc/internal/metrics"
)

type OrderLine struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Qty        int    `json:"qty"`
}

type CreateOrderInput struct {
	StudentID string      `json:"studentId" validate:"required"`
	VendorID  string      `json:"vendorId" validate:"required"`
	Items     []OrderLine `json:"items" validate:"required,min=1,dive"`
}

type OrderService struct {
	orders   OrderRepository
	vendors  VendorDirectory
	menu     MenuCatalog
	gate     BookingGate
	notifier Notifier
	events   EventPublisher
	now      func() time.Time
}

// NewOrderService wires the lifecycle. events may be nil when no event
// stream is configured.
func NewOrderService(orders OrderRepository, vendors VendorDirectory, menu MenuCatalog, gate BookingGate, notifier Notifier, events EventPublisher) *OrderService {
	return &OrderService{
		orders:   orders,
		vendors:  vendors,
		menu:     menu,
		gate:     gate,
		notifier: notifier,
		events:   events,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for created and paid timestamps.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	order, err := s.create(ctx, in)
	observe("create", err)
	return order, err
}

func (s *OrderService) create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if !s.gate.IsOpen() {
		return nil, domain.WindowClosed("ordering is only possible during the booking window")
	}
	if in.StudentID == "" || in.VendorID == "" || len(in.Items) == 0 {
		return nil, domain.Validation("studentId, vendorId and at least one item are required")
	}

	vendor, err := s.vendors.GetVendor(ctx, in.VendorID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.VendorUnavailable(domain.ErrNotFound, "vendor %s not found", in.VendorID)
	case err != nil:
		return nil, fmt.Errorf("load vendor: %w", err)
	case !vendor.Approved:
		return nil, domain.VendorUnavailable(domain.ErrIneligible, "vendor %s is not approved", in.VendorID)
	}

	order := &domain.Order{
		ID:        domain.NewID("ord"),
		StudentID: in.StudentID,
		VendorID:  in.VendorID,
		Status:    domain.StatusCreated,
		CreatedAt: s.now(),
		Items:     make([]domain.OrderItem, 0, len(in.Items)),
	}
	for _, line := range in.Items {
		if line.MenuItemID == "" {
			return nil, domain.Validation("every item needs a menuItemId")
		}
		if line.Qty > domain.MaxItemQty {
			return nil, domain.Validation("qty of %s must not exceed %d", line.MenuItemID, domain.MaxItemQty)
		}
		item, err := s.menu.GetMenuItem(ctx, line.MenuItemID, in.VendorID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ItemUnavailable(domain.ErrNotFound, "menu item %s is not sold by vendor %s", line.MenuItemID, in.VendorID)
		case err != nil:
			return nil, fmt.Errorf("load menu item: %w", err)
		case !item.Approved:
			return nil, domain.ItemUnavailable(domain.ErrIneligible, "menu item %s is not approved", line.MenuItemID)
		}

		qty := line.Qty
		if qty < 1 {
			qty = 1
		}
		order.Items = append(order.Items, domain.OrderItem{
			ID:         domain.NewID("itm"),
			OrderID:    order.ID,
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Qty:        qty,
		})
	}
	total, err := domain.LineTotal(order.Items)
	if err != nil {
		return nil, err
	}
	order.Total = total

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("vendor_id", order.VendorID).
		Int64("total", order.Total).
		Msg("order created")
	s.announce(ctx, order, domain.EventOrderNew, domain.VendorRoom(order.VendorID))
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx, filter)
}

func (s *OrderService) MarkPaid(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.MarkPaid(ctx, id, s.now())
	observe(string(domain.TransitionPay), err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("order_id", order.ID).Msg("order paid")
	s.announce(ctx, order, domain.EventOrderPaid, domain.VendorRoom(order.VendorID))
	s.notify(order, domain.EventOrderUpdate, domain.StudentRoom(order.StudentID))
	return order, nil
}

func (s *OrderService) Accept(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.Accept(ctx, id)
	observe(string(domain.TransitionAccept), err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("order_id", order.ID).Int("queue_number", *order.QueueNumber).Msg("order accepted")
	s.announce(ctx, order, domain.EventOrderUpdate, domain.StudentRoom(order.StudentID))
	return order, nil
}

func (s *OrderService) Reject(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.Reject(ctx, id)
	observe(string(domain.TransitionReject), err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("order_id", order.ID).Msg("order rejected")
	s.announce(ctx, order, domain.EventOrderUpdate, domain.StudentRoom(order.StudentID))
	return order, nil
}

// announce notifies the room and writes the lifecycle event to the stream.
// Stream failures are logged only; the mutation has already committed.
func (s *OrderService) announce(ctx context.Context, order *domain.Order, eventType string, room domain.Room) {
	s.notify(order, eventType, room)

	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(ctx, domain.NewOrderEvent(eventType, order, s.now())); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Str("event", eventType).Msg("failed to publish order event")
		return
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
}

// notify hands each room its own snapshot so no subscriber shares state with
// the caller.
func (s *OrderService) notify(order *domain.Order, eventType string, room domain.Room) {
	s.notifier.Publish(room, eventType, order.Clone())
}

func observe(transition string, err error) {
	result := "ok"
	if err != nil {
		result = domain.ReasonOf(err)
	}
	metrics.OrderTransitions.WithLabelValues(transition, result).Inc()
}

var _ OrderServiceInterface = (*OrderService)(nil)
