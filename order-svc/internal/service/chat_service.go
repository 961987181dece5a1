package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-canteen/order-svc/internal/domain"
	"campus-canteen/order-svc/internal/metrics"
)

const unknownSender = "unknown"

type ChatService struct {
	orders   OrderRepository
	messages MessageRepository
	notifier Notifier
	now      func() time.Time
}

func NewChatService(orders OrderRepository, messages MessageRepository, notifier Notifier) *ChatService {
	return &ChatService{
		orders:   orders,
		messages: messages,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *ChatService) WithClock(now func() time.Time) *ChatService {
	s.now = now
	return s
}

// Append stores the message and then broadcasts it to the order's room.
func (s *ChatService) Append(ctx context.Context, orderID, from, text string) (*domain.Message, error) {
	if orderID == "" {
		return nil, domain.Validation("orderId is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.Validation("message text is required")
	}
	if err := s.requireOrder(ctx, orderID); err != nil {
		return nil, err
	}
	if from == "" {
		from = unknownSender
	}

	msg := &domain.Message{
		ID:      domain.NewID("msg"),
		OrderID: orderID,
		From:    from,
		Text:    text,
		Ts:      s.now(),
	}
	if err := s.messages.AppendMessage(ctx, msg); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("append message: %w", err)
	}

	metrics.ChatMessages.Inc()
	s.notifier.Publish(domain.OrderRoom(orderID), domain.EventChatMessage, *msg)
	return msg, nil
}

// ListSince returns the order's full history, oldest first.
func (s *ChatService) ListSince(ctx context.Context, orderID string) ([]domain.Message, error) {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, orderID)
}

func (s *ChatService) requireOrder(ctx context.Context, orderID string) error {
	if _, err := s.orders.GetOrder(ctx, orderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("order %s not found", orderID)
		}
		return fmt.Errorf("load order: %w", err)
	}
	return nil
}

var _ ChatServiceInterface = (*ChatService)(nil)
