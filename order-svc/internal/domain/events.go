package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	EventOrderNew    = "order:new"
	EventOrderPaid   = "order:paid"
	EventOrderUpdate = "order:update"
	EventChatMessage = "chat:message"
)

type RoomKind string

const (
	RoomStudent RoomKind = "student"
	RoomVendor  RoomKind = "vendor"
	RoomOrder   RoomKind = "order"
)

// Room addresses a multicast group. Kind and ID are kept apart so that IDs
// containing ':' can never collide with another kind's rooms.
type Room struct {
	Kind RoomKind
	ID   string
}

func StudentRoom(id string) Room { return Room{Kind: RoomStudent, ID: id} }
func VendorRoom(id string) Room  { return Room{Kind: RoomVendor, ID: id} }
func OrderRoom(id string) Room   { return Room{Kind: RoomOrder, ID: id} }

func (r Room) String() string { return string(r.Kind) + ":" + r.ID }

// ParseRoom is the inverse of String; only the first ':' separates kind from ID.
func ParseRoom(s string) (Room, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return Room{}, fmt.Errorf("malformed room %q", s)
	}
	switch RoomKind(kind) {
	case RoomStudent, RoomVendor, RoomOrder:
		return Room{Kind: RoomKind(kind), ID: id}, nil
	}
	return Room{}, fmt.Errorf("unknown room kind %q", kind)
}

// OrderEvent is the record written to the order-events stream for every
// successful lifecycle mutation.
type OrderEvent struct {
	Type        string      `json:"type"`
	OrderID     string      `json:"order_id"`
	VendorID    string      `json:"vendor_id"`
	StudentID   string      `json:"student_id"`
	Status      OrderStatus `json:"status"`
	Total       int64       `json:"total"`
	QueueNumber int         `json:"queue_number,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

func NewOrderEvent(eventType string, o *Order, at time.Time) OrderEvent {
	evt := OrderEvent{
		Type:      eventType,
		OrderID:   o.ID,
		VendorID:  o.VendorID,
		StudentID: o.StudentID,
		Status:    o.Status,
		Total:     o.Total,
		Timestamp: at,
	}
	if o.QueueNumber != nil {
		evt.QueueNumber = *o.QueueNumber
	}
	return evt
}
