package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-canteen/order-svc/internal/domain"
)

type VendorInput struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Approved bool   `json:"approved"`
}

type MenuItemInput struct {
	VendorID string `json:"vendorId" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"min=0"`
}

// CatalogService manages vendors and their menus. It also serves as the
// VendorDirectory and MenuCatalog the order lifecycle reads from.
type CatalogService struct {
	repo   CatalogRepository
	orders OrderRepository
}

func NewCatalogService(repo CatalogRepository, orders OrderRepository) *CatalogService {
	return &CatalogService{repo: repo, orders: orders}
}

func (s *CatalogService) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	return s.repo.GetVendor(ctx, id)
}

func (s *CatalogService) GetMenuItem(ctx context.Context, itemID, vendorID string) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, itemID, vendorID)
}

func (s *CatalogService) ListVendors(ctx context.Context, onlyApproved bool) ([]domain.Vendor, error) {
	return s.repo.ListVendors(ctx, onlyApproved)
}

func (s *CatalogService) UpsertVendor(ctx context.Context, in VendorInput) (*domain.Vendor, error) {
	v := &domain.Vendor{ID: strings.TrimSpace(in.ID), Name: strings.TrimSpace(in.Name), Approved: in.Approved}
	if v.ID == "" || v.Name == "" {
		return nil, domain.Validation("vendor id and name are required")
	}
	if err := s.repo.UpsertVendor(ctx, v); err != nil {
		return nil, fmt.Errorf("upsert vendor: %w", err)
	}
	return v, nil
}

func (s *CatalogService) SetVendorApproved(ctx context.Context, id string, approved bool) (*domain.Vendor, error) {
	return s.repo.SetVendorApproved(ctx, id, approved)
}

// DeleteVendor refuses while the vendor still has orders awaiting a decision.
// The repository repeats the check under the same lock as the delete.
func (s *CatalogService) DeleteVendor(ctx context.Context, id string) error {
	open, err := s.orders.HasOpenOrders(ctx, id)
	if err != nil {
		return fmt.Errorf("check open orders: %w", err)
	}
	if open {
		return domain.VendorBusy("vendor %s still has open orders", id)
	}
	return s.repo.DeleteVendor(ctx, id)
}

func (s *CatalogService) ListMenu(ctx context.Context, vendorID string) ([]domain.MenuItem, error) {
	if vendorID == "" {
		return nil, domain.Validation("vendorId is required")
	}
	return s.repo.ListMenuItems(ctx, vendorID)
}

// CreateMenuItem adds an item to an approved vendor's menu. New items are
// approved by default; an admin may withdraw approval later.
func (s *CatalogService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*domain.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if in.VendorID == "" || name == "" {
		return nil, domain.Validation("vendorId and name are required")
	}
	if in.Price < 0 {
		return nil, domain.Validation("price must not be negative")
	}

	vendor, err := s.repo.GetVendor(ctx, in.VendorID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.VendorUnavailable(domain.ErrNotFound, "vendor %s not found", in.VendorID)
	case err != nil:
		return nil, fmt.Errorf("load vendor: %w", err)
	case !vendor.Approved:
		return nil, domain.VendorUnavailable(domain.ErrIneligible, "vendor %s is not approved", in.VendorID)
	}

	item := &domain.MenuItem{
		ID:       domain.NewID("menu"),
		VendorID: in.VendorID,
		Name:     name,
		Price:    in.Price,
		Approved: true,
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, itemID, vendorID string, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Validation("name must not be empty")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, domain.Validation("price must not be negative")
	}
	return s.repo.UpdateMenuItem(ctx, itemID, vendorID, patch)
}

func (s *CatalogService) SetMenuItemApproved(ctx context.Context, itemID string, approved bool) (*domain.MenuItem, error) {
	return s.repo.SetMenuItemApproved(ctx, itemID, approved)
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, itemID, vendorID string) error {
	return s.repo.DeleteMenuItem(ctx, itemID, vendorID)
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ VendorDirectory         = (*CatalogService)(nil)
	_ MenuCatalog             = (*CatalogService)(nil)
)
