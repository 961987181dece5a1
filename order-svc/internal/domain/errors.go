package domain

import (
	"errors"
	"fmt"
)

// Kinds. Match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrIneligible        = errors.New("ineligible")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrWindowClosed      = errors.New("booking window closed")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Stable reason codes surfaced to clients.
const (
	ReasonBookingClosed     = "booking_closed"
	ReasonVendorUnavailable = "vendor_unavailable"
	ReasonItemUnavailable   = "item_unavailable"
	ReasonValidation        = "validation"
	ReasonNotFound          = "not_found"
	ReasonInvalidTransition = "invalid_transition"
	ReasonVendorBusy        = "vendor_has_open_orders"
	ReasonUnauthorized      = "unauthorized"
	ReasonInternal          = "internal"
)

type Error struct {
	kind   error
	reason string
	msg    string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func (e *Error) Reason() string { return e.reason }

func newError(kind error, reason, format string, args ...any) *Error {
	return &Error{kind: kind, reason: reason, msg: fmt.Sprintf(format, args...)}
}

func WindowClosed(format string, args ...any) error {
	return newError(ErrWindowClosed, ReasonBookingClosed, format, args...)
}

func VendorUnavailable(kind error, format string, args ...any) error {
	return newError(kind, ReasonVendorUnavailable, format, args...)
}

func ItemUnavailable(kind error, format string, args ...any) error {
	return newError(kind, ReasonItemUnavailable, format, args...)
}

func Validation(format string, args ...any) error {
	return newError(ErrValidation, ReasonValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, ReasonNotFound, format, args...)
}

func InvalidTransition(format string, args ...any) error {
	return newError(ErrInvalidTransition, ReasonInvalidTransition, format, args...)
}

func VendorBusy(format string, args ...any) error {
	return newError(ErrValidation, ReasonVendorBusy, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, ReasonUnauthorized, format, args...)
}

// ReasonOf returns the reason code carried by err, or "internal".
func ReasonOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.reason
	}
	return ReasonInternal
}
