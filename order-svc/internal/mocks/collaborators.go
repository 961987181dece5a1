package mocks

import (
	"context"

	"campus-canteen/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (_m *Notifier) Publish(room domain.Room, eventType string, payload any) {
	_m.Called(room, eventType, payload)
}

type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error {
	ret := _m.Called(ctx, evt)
	return ret.Error(0)
}

type BookingGate struct {
	mock.Mock
}

func (_m *BookingGate) IsOpen() bool {
	ret := _m.Called()
	return ret.Get(0).(bool)
}
