package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"campus-canteen/order-svc/internal/domain"
)

const adminUserID = "admin"

type LoginInput struct {
	Type      string `json:"type" validate:"required,oneof=student vendor admin"`
	StudentID string `json:"studentId"`
	VendorID  string `json:"vendorId"`
	AdminKey  string `json:"adminKey"`
}

// AuthService resolves a login to a user record, creating students and
// vendors on first sight. It is identification, not authentication.
type AuthService struct {
	users    UserRepository
	adminKey string
}

func NewAuthService(users UserRepository, adminKey string) *AuthService {
	return &AuthService{users: users, adminKey: adminKey}
}

// CheckAdminKey is false whenever no admin key is configured.
func (s *AuthService) CheckAdminKey(key string) bool {
	if s.adminKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) == 1
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	switch domain.Role(in.Type) {
	case domain.RoleAdmin:
		if !s.CheckAdminKey(in.AdminKey) {
			return nil, domain.Unauthorized("invalid admin key")
		}
		return s.lookupOrCreate(ctx, domain.User{ID: adminUserID, Name: "Administrator", Role: domain.RoleAdmin})

	case domain.RoleStudent:
		if in.StudentID == "" {
			return nil, domain.Validation("studentId is required")
		}
		return s.lookupOrCreate(ctx, domain.User{ID: in.StudentID, Name: "Student " + in.StudentID, Role: domain.RoleStudent})

	case domain.RoleVendor:
		if in.VendorID == "" {
			return nil, domain.Validation("vendorId is required")
		}
		// The vendor record starts unapproved; an admin has to approve it
		// before students can order from it.
		if err := s.users.EnsureVendor(ctx, in.VendorID, "Vendor "+in.VendorID); err != nil {
			return nil, fmt.Errorf("ensure vendor: %w", err)
		}
		return s.lookupOrCreate(ctx, domain.User{ID: in.VendorID, Name: "Vendor " + in.VendorID, Role: domain.RoleVendor, VendorID: in.VendorID})
	}
	return nil, domain.Validation("login type must be student, vendor or admin")
}

func (s *AuthService) lookupOrCreate(ctx context.Context, fresh domain.User) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, fresh.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := s.users.CreateUser(ctx, &fresh); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &fresh, nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
