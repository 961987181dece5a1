package domain

import (
	"errors"
	"time"
)

// Order statuses as they appear on the order-events stream.
const (
	StatusCreated  = "created"
	StatusPaid     = "pending_vendor_confirmation"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

var ErrInvalidQuery = errors.New("invalid query")

// OrderEvent mirrors the record order-svc writes for every lifecycle change.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	VendorID    string    `json:"vendor_id"`
	StudentID   string    `json:"student_id"`
	Status      string    `json:"status"`
	Total       int64     `json:"total"`
	QueueNumber int       `json:"queue_number,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type VendorDailyStats struct {
	VendorID string `json:"vendorId"`
	Date     string `json:"date"`
	Created  int64  `json:"created"`
	Paid     int64  `json:"paid"`
	Accepted int64  `json:"accepted"`
	Rejected int64  `json:"rejected"`
	// Revenue sums the totals of paid orders.
	Revenue int64 `json:"revenue"`
}

type VendorRank struct {
	VendorID string `json:"vendorId"`
	Accepted int64  `json:"accepted"`
}

// Counted reports whether status contributes to the daily statistics.
func Counted(status string) bool {
	switch status {
	case StatusCreated, StatusPaid, StatusAccepted, StatusRejected:
		return true
	}
	return false
}
