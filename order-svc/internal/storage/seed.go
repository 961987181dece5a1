package storage

import (
	"context"
	"errors"
	"fmt"

	"campus-canteen/order-svc/internal/domain"
)

// Seeder is the subset of a repository the demo data needs.
type Seeder interface {
	UpsertVendor(ctx context.Context, v *domain.Vendor) error
	GetMenuItem(ctx context.Context, itemID, vendorID string) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *domain.MenuItem) error
}

var demoVendors = []domain.Vendor{
	{ID: "V001", Name: "Cafeteria A", Approved: true},
	{ID: "V002", Name: "Noodle Station", Approved: true},
}

var demoMenu = []domain.MenuItem{
	{ID: "M001", VendorID: "V001", Name: "Fried Rice", Price: 40, Approved: true},
	{ID: "M002", VendorID: "V001", Name: "Basil Chicken", Price: 45, Approved: true},
	{ID: "M101", VendorID: "V002", Name: "Beef Noodle", Price: 55, Approved: true},
	{ID: "M102", VendorID: "V002", Name: "Tom Yum Noodle", Price: 50, Approved: true},
}

// Seed loads the demo catalog. Running it again leaves existing items alone.
func Seed(ctx context.Context, repo Seeder) error {
	for _, v := range demoVendors {
		if err := repo.UpsertVendor(ctx, &v); err != nil {
			return fmt.Errorf("seed vendor %s: %w", v.ID, err)
		}
	}
	for _, m := range demoMenu {
		_, err := repo.GetMenuItem(ctx, m.ID, m.VendorID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("seed menu item %s: %w", m.ID, err)
		}
		if err := repo.CreateMenuItem(ctx, &m); err != nil {
			return fmt.Errorf("seed menu item %s: %w", m.ID, err)
		}
	}
	return nil
}
