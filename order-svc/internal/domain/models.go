package domain

import "time"

type Vendor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

type MenuItem struct {
	ID        string    `json:"id"`
	VendorID  string    `json:"vendorId"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

// Order carries its line items embedded. Total and the item snapshots are
// fixed at creation and never recomputed from the live menu.
type Order struct {
	ID          string      `json:"id"`
	StudentID   string      `json:"studentId"`
	VendorID    string      `json:"vendorId"`
	Items       []OrderItem `json:"items"`
	Total       int64       `json:"total"`
	Status      OrderStatus `json:"status"`
	QueueNumber *int        `json:"queueNumber"`
	CreatedAt   time.Time   `json:"createdAt"`
	PaidAt      *time.Time  `json:"paidAt"`
}

type OrderItem struct {
	ID         string `json:"id"`
	OrderID    string `json:"orderId"`
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Qty        int    `json:"qty"`
}

// Clone returns a deep copy so callers never share item slices or pointers.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	if o.QueueNumber != nil {
		n := *o.QueueNumber
		c.QueueNumber = &n
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	return c
}

type OrderFilter struct {
	StudentID string
	VendorID  string
}

type Message struct {
	ID      string    `json:"id"`
	OrderID string    `json:"orderId"`
	From    string    `json:"from"`
	Text    string    `json:"text"`
	Ts      time.Time `json:"ts"`
}

type Role string

const (
	RoleStudent Role = "student"
	RoleVendor  Role = "vendor"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	VendorID string `json:"vendorId,omitempty"`
}

// MenuItemPatch carries the fields a vendor may change on an existing item.
type MenuItemPatch struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
}
