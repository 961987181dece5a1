package domain

import (
	"math"
	"time"
)

type OrderStatus string

const (
	StatusCreated                   OrderStatus = "created"
	StatusPendingVendorConfirmation OrderStatus = "pending_vendor_confirmation"
	StatusAccepted                  OrderStatus = "accepted"
	StatusRejected                  OrderStatus = "rejected"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusPendingVendorConfirmation, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Transition names a lifecycle step. Each step has exactly one target status.
type Transition string

const (
	TransitionPay    Transition = "pay"
	TransitionAccept Transition = "accept"
	TransitionReject Transition = "reject"
)

// Accept is only admitted after payment; reject is admitted from any
// non-terminal status so a vendor can refuse an order that was never paid.
var admitted = map[Transition][]OrderStatus{
	TransitionPay:    {StatusCreated},
	TransitionAccept: {StatusPendingVendorConfirmation},
	TransitionReject: {StatusCreated, StatusPendingVendorConfirmation},
}

var targets = map[Transition]OrderStatus{
	TransitionPay:    StatusPendingVendorConfirmation,
	TransitionAccept: StatusAccepted,
	TransitionReject: StatusRejected,
}

// Check returns an InvalidTransition error when t is not admitted from the
// order's current status.
func (o *Order) Check(t Transition) error {
	if o.Status.Terminal() {
		return InvalidTransition("order %s is already %s", o.ID, o.Status)
	}
	for _, s := range admitted[t] {
		if o.Status == s {
			return nil
		}
	}
	return InvalidTransition("cannot %s order %s in status %s", t, o.ID, o.Status)
}

func (o *Order) MarkPaid(at time.Time) error {
	if err := o.Check(TransitionPay); err != nil {
		return err
	}
	o.Status = targets[TransitionPay]
	o.PaidAt = &at
	return nil
}

func (o *Order) Accept(queueNumber int) error {
	if err := o.Check(TransitionAccept); err != nil {
		return err
	}
	o.Status = targets[TransitionAccept]
	o.QueueNumber = &queueNumber
	return nil
}

func (o *Order) Reject() error {
	if err := o.Check(TransitionReject); err != nil {
		return err
	}
	o.Status = targets[TransitionReject]
	return nil
}

// MaxItemQty bounds the quantity of a single order line.
const MaxItemQty = 1000

// LineTotal sums price×qty over the items. A sum that does not fit in int64 is
// reported as a validation error.
func LineTotal(items []OrderItem) (int64, error) {
	var total int64
	for _, it := range items {
		if it.Price < 0 || it.Qty < 1 {
			return 0, Validation("item %s has an invalid price or quantity", it.MenuItemID)
		}
		if it.Price > 0 && int64(it.Qty) > (math.MaxInt64-total)/it.Price {
			return 0, Validation("order total is too large")
		}
		total += it.Price * int64(it.Qty)
	}
	return total, nil
}
