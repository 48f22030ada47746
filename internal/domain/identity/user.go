package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/shared"
)

// UserRole is the role a user holds within a tenant
type UserRole string

const (
	RoleOwner    UserRole = "owner"
	RoleManager  UserRole = "manager"
	RoleMechanic UserRole = "mechanic"
)

// User is a member of a tenant workshop
type User struct {
	shared.TenantAggregateRoot
	Name   string   `gorm:"size:255;not null"`
	Email  string   `gorm:"size:255;not null;uniqueIndex:idx_users_tenant_email,priority:2"`
	Role   UserRole `gorm:"size:16;not null"`
	Active bool     `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new tenant user
func NewUser(tenantID uuid.UUID, name, email string, role UserRole) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "user name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_INPUT", "user email is invalid")
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               email,
		Role:                role,
		Active:              true,
	}, nil
}

// UserRepository defines the persistence contract for tenant users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
}

// PlatformAdmin is a platform operator who may impersonate tenant users
type PlatformAdmin struct {
	shared.BaseAggregateRoot
	Name   string `gorm:"size:255;not null"`
	Email  string `gorm:"size:255;not null;uniqueIndex"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PlatformAdmin) TableName() string {
	return "platform_admins"
}

// PlatformAdminRepository defines the persistence contract for
// platform administrators
type PlatformAdminRepository interface {
	Save(ctx context.Context, admin *PlatformAdmin) error
	FindByID(ctx context.Context, id uuid.UUID) (*PlatformAdmin, error)
	FindByEmail(ctx context.Context, email string) (*PlatformAdmin, error)
}
