package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-canteen/order-svc/internal/domain"

	"github.com/lib/pq"
)

const selectOrder = "SELECT id, student_id, vendor_id, total, status, queue_number, created_at, paid_at FROM orders"

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
		queue  sql.NullInt64
		paidAt sql.NullTime
	)
	if err := row.Scan(&o.ID, &o.StudentID, &o.VendorID, &o.Total, &status, &queue, &o.CreatedAt, &paidAt); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if queue.Valid {
		n := int(queue.Int64)
		o.QueueNumber = &n
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	o.Items = []domain.OrderItem{}
	return &o, nil
}

// CreateOrder inserts the order and all of its items in one transaction. The
// vendor row is share-locked so a concurrent DeleteVendor waits for it.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var vendorID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM vendors WHERE id = $1 FOR SHARE", order.VendorID).Scan(&vendorID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VendorUnavailable(domain.ErrNotFound, "vendor %s not found", order.VendorID)
	}
	if err != nil {
		return fmt.Errorf("lock vendor: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, student_id, vendor_id, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.StudentID, order.VendorID, order.Total, string(order.Status), order.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, name, price, qty)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, order.ID, item.MenuItemID, item.Name, item.Price, item.Qty); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, selectOrder+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("order %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, r.DB, []*domain.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns matching orders newest first, each with its items.
func (r *PostgresRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var (
		conds []string
		args  []any
	)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conds = append(conds, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.VendorID != "" {
		args = append(args, filter.VendorID)
		conds = append(conds, fmt.Sprintf("vendor_id = $%d", len(args)))
	}
	query := selectOrder
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ptrs []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, r.DB, ptrs); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(ptrs))
	for _, o := range ptrs {
		orders = append(orders, *o)
	}
	return orders, nil
}

// attachItems loads the items of all orders with a single query.
func (r *PostgresRepository) attachItems(ctx context.Context, q queryer, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, name, price, qty
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Price, &item.Qty); err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

// withLockedOrder runs fn against the order row held FOR UPDATE. Concurrent
// transitions on the same order serialize here; fn's writes commit together.
func (r *PostgresRepository) withLockedOrder(ctx context.Context, id string, fn func(tx *sql.Tx, o *domain.Order) error) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := scanOrder(tx.QueryRowContext(ctx, selectOrder+" WHERE id = $1 FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("order %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	if err := fn(tx, order); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, tx, []*domain.Order{order}); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) MarkPaid(ctx context.Context, id string, at time.Time) (*domain.Order, error) {
	return r.withLockedOrder(ctx, id, func(tx *sql.Tx, o *domain.Order) error {
		if err := o.MarkPaid(at); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1, paid_at = $2 WHERE id = $3",
			string(o.Status), at, o.ID)
		return err
	})
}

// Accept draws the vendor's next queue number and records it on the order in
// the same transaction, so a rolled back accept never consumes a number.
func (r *PostgresRepository) Accept(ctx context.Context, id string) (*domain.Order, error) {
	return r.withLockedOrder(ctx, id, func(tx *sql.Tx, o *domain.Order) error {
		if err := o.Check(domain.TransitionAccept); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO queue_counters (vendor_id, current) VALUES ($1, 1)
			ON CONFLICT (vendor_id) DO UPDATE SET current = queue_counters.current + 1
			RETURNING current`, o.VendorID).Scan(&n); err != nil {
			return fmt.Errorf("allocate queue number: %w", err)
		}
		if err := o.Accept(n); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1, queue_number = $2 WHERE id = $3",
			string(o.Status), n, o.ID)
		return err
	})
}

func (r *PostgresRepository) Reject(ctx context.Context, id string) (*domain.Order, error) {
	return r.withLockedOrder(ctx, id, func(tx *sql.Tx, o *domain.Order) error {
		if err := o.Reject(); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", string(o.Status), o.ID)
		return err
	})
}

const openOrdersQuery = `
	SELECT EXISTS(
		SELECT 1 FROM orders
		WHERE vendor_id = $1 AND status IN ($2, $3)
	)`

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasOpenOrders reports whether the vendor has orders that are not yet
// accepted or rejected.
func (r *PostgresRepository) HasOpenOrders(ctx context.Context, vendorID string) (bool, error) {
	return hasOpenOrders(ctx, r.DB, vendorID)
}

func hasOpenOrders(ctx context.Context, q rowQueryer, vendorID string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, openOrdersQuery,
		vendorID, string(domain.StatusCreated), string(domain.StatusPendingVendorConfirmation)).Scan(&exists)
	return exists, err
}

// Messages

func (r *PostgresRepository) AppendMessage(ctx context.Context, m *domain.Message) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (id, order_id, sender, text, ts) VALUES ($1, $2, $3, $4, $5)",
		m.ID, m.OrderID, m.From, m.Text, m.Ts)
	if pqCode(err) == pqForeignKeyViolation {
		return domain.NotFound("order %s not found", m.OrderID)
	}
	return err
}

// ListMessages returns the order's history ordered by timestamp, ties broken
// by insertion order.
func (r *PostgresRepository) ListMessages(ctx context.Context, orderID string) ([]domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, sender, text, ts
		FROM messages
		WHERE order_id = $1
		ORDER BY ts, seq`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.OrderID, &m.From, &m.Text, &m.Ts); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
