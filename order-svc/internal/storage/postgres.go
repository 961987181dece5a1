package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus-canteen/order-svc/internal/domain"

	"github.com/lib/pq"
)

const pqForeignKeyViolation = "23503"

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS vendors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			price BIGINT NOT NULL CHECK (price >= 0),
			approved BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			vendor_id TEXT REFERENCES vendors(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			vendor_id TEXT NOT NULL,
			total BIGINT NOT NULL,
			status TEXT NOT NULL,
			queue_number INTEGER,
			created_at TIMESTAMPTZ NOT NULL,
			paid_at TIMESTAMPTZ
		)`,
		"CREATE INDEX IF NOT EXISTS orders_vendor_created_idx ON orders (vendor_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS orders_student_created_idx ON orders (student_id, created_at DESC)",
		`CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			price BIGINT NOT NULL,
			qty INTEGER NOT NULL CHECK (qty >= 1)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			sender TEXT NOT NULL,
			text TEXT NOT NULL,
			ts TIMESTAMPTZ NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS messages_order_ts_idx ON messages (order_id, ts, seq)",
		`CREATE TABLE IF NOT EXISTS queue_counters (
			vendor_id TEXT PRIMARY KEY,
			current INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, c := range stmt {
		if c == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// Vendors

func (r *PostgresRepository) ListVendors(ctx context.Context, onlyApproved bool) ([]domain.Vendor, error) {
	query := "SELECT id, name, approved, created_at FROM vendors"
	if onlyApproved {
		query += " WHERE approved = TRUE"
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		var v domain.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Approved, &v.CreatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *PostgresRepository) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, approved, created_at FROM vendors WHERE id = $1", id).
		Scan(&v.ID, &v.Name, &v.Approved, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("vendor %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UpsertVendor creates the vendor or updates its name and approval flag.
func (r *PostgresRepository) UpsertVendor(ctx context.Context, v *domain.Vendor) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO vendors (id, name, approved)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, approved = EXCLUDED.approved
		RETURNING created_at`,
		v.ID, v.Name, v.Approved).Scan(&v.CreatedAt)
}

// EnsureVendor inserts an unapproved vendor unless one already exists.
func (r *PostgresRepository) EnsureVendor(ctx context.Context, id, name string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO vendors (id, name, approved) VALUES ($1, $2, FALSE) ON CONFLICT (id) DO NOTHING",
		id, name)
	return err
}

func (r *PostgresRepository) SetVendorApproved(ctx context.Context, id string, approved bool) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.DB.QueryRowContext(ctx,
		"UPDATE vendors SET approved = $1 WHERE id = $2 RETURNING id, name, approved, created_at",
		approved, id).Scan(&v.ID, &v.Name, &v.Approved, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("vendor %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteVendor checks for open orders and deletes the vendor while holding the
// vendor row lock. CreateOrder share-locks the same row, so an order cannot be
// placed between the check and the delete.
func (r *PostgresRepository) DeleteVendor(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, "SELECT id FROM vendors WHERE id = $1 FOR UPDATE", id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("vendor %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("lock vendor: %w", err)
	}

	open, err := hasOpenOrders(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("check open orders: %w", err)
	}
	if open {
		return domain.VendorBusy("vendor %s still has open orders", id)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM vendors WHERE id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}

// Menu items

const selectMenuItem = "SELECT id, vendor_id, name, price, approved, created_at FROM menu_items"

func scanMenuItem(row interface{ Scan(...any) error }) (*domain.MenuItem, error) {
	var m domain.MenuItem
	if err := row.Scan(&m.ID, &m.VendorID, &m.Name, &m.Price, &m.Approved, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, vendorID string) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, selectMenuItem+" WHERE vendor_id = $1 ORDER BY created_at, id", vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// GetMenuItem returns the item only when it belongs to vendorID.
func (r *PostgresRepository) GetMenuItem(ctx context.Context, itemID, vendorID string) (*domain.MenuItem, error) {
	m, err := scanMenuItem(r.DB.QueryRowContext(ctx, selectMenuItem+" WHERE id = $1 AND vendor_id = $2", itemID, vendorID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("menu item %s not found for vendor %s", itemID, vendorID)
	}
	return m, err
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, m *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (id, vendor_id, name, price, approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		m.ID, m.VendorID, m.Name, m.Price, m.Approved).Scan(&m.CreatedAt)
	if pqCode(err) == pqForeignKeyViolation {
		return domain.VendorUnavailable(domain.ErrNotFound, "vendor %s not found", m.VendorID)
	}
	return err
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, itemID, vendorID string, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	m, err := scanMenuItem(r.DB.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = COALESCE($1, name), price = COALESCE($2, price)
		WHERE id = $3 AND vendor_id = $4
		RETURNING id, vendor_id, name, price, approved, created_at`,
		patch.Name, patch.Price, itemID, vendorID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("menu item %s not found for vendor %s", itemID, vendorID)
	}
	return m, err
}

func (r *PostgresRepository) SetMenuItemApproved(ctx context.Context, itemID string, approved bool) (*domain.MenuItem, error) {
	m, err := scanMenuItem(r.DB.QueryRowContext(ctx,
		"UPDATE menu_items SET approved = $1 WHERE id = $2 RETURNING id, vendor_id, name, price, approved, created_at",
		approved, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("menu item %s not found", itemID)
	}
	return m, err
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, itemID, vendorID string) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1 AND vendor_id = $2", itemID, vendorID)
	if err != nil {
		return err
	}
	return requireAffected(result, "menu item", itemID)
}

// Users

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var (
		u        domain.User
		role     string
		vendorID sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, "SELECT id, name, role, vendor_id FROM users WHERE id = $1", id).
		Scan(&u.ID, &u.Name, &role, &vendorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.VendorID = vendorID.String
	return &u, nil
}

// CreateUser is idempotent: a concurrent login that already created the
// user is not an error.
func (r *PostgresRepository) CreateUser(ctx context.Context, u *domain.User) error {
	var vendorID sql.NullString
	if u.VendorID != "" {
		vendorID = sql.NullString{String: u.VendorID, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, role, vendor_id) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING",
		u.ID, u.Name, string(u.Role), vendorID)
	return err
}

func requireAffected(result sql.Result, what, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("%s %s not found", what, id)
	}
	return nil
}
