package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/shared"
)

// TenantStatus is the lifecycle state of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is a workshop account on the platform
type Tenant struct {
	shared.BaseAggregateRoot
	Name   string       `gorm:"size:255;not null"`
	Slug   string       `gorm:"size:64;not null;uniqueIndex"`
	Status TenantStatus `gorm:"size:16;not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant
func NewTenant(name, slug string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant name cannot be empty")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant slug cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Status:            TenantStatusActive,
	}, nil
}

// IsActive reports whether the tenant can be operated on
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Suspend moves the tenant to the suspended state
func (t *Tenant) Suspend() {
	t.Status = TenantStatusSuspended
	t.MarkUpdated()
}

// TenantRepository defines the persistence contract for tenants
type TenantRepository interface {
	Save(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
}
