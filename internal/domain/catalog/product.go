package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/workshophub/backend/internal/domain/shared"
)

// Product is a stockable catalog item owned by a tenant. The cached
// StockQuantity is maintained by the stock ledger; the movement history
// remains the source of truth.
type Product struct {
	shared.TenantAggregateRoot
	SKU           string          `gorm:"size:64;not null;uniqueIndex:idx_products_tenant_sku,priority:2"`
	Name          string          `gorm:"size:255;not null"`
	Description   string          `gorm:"type:text"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity int64           `gorm:"not null;default:0"`
	MinStockLevel *int64          `gorm:""`
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in the tenant's catalog
func NewProduct(tenantID uuid.UUID, sku, name string, costPrice, salePrice decimal.Decimal) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product SKU cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product name cannot be empty")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "product prices cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		CostPrice:           costPrice,
		SalePrice:           salePrice,
		StockQuantity:       0,
		Active:              true,
	}, nil
}

// SetMinStockLevel sets the low-stock threshold. A nil level disables
// low-stock detection for this product.
func (p *Product) SetMinStockLevel(level *int64) error {
	if level != nil && *level < 0 {
		return shared.NewDomainError("INVALID_INPUT", "minimum stock level cannot be negative")
	}
	p.MinStockLevel = level
	p.MarkUpdated()
	return nil
}

// UpdateDetails updates name, description and prices
func (p *Product) UpdateDetails(name, description string, costPrice, salePrice decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "product name cannot be empty")
	}
	if costPrice.IsNegative() || salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "product prices cannot be negative")
	}
	p.Name = name
	p.Description = description
	p.CostPrice = costPrice
	p.SalePrice = salePrice
	p.MarkUpdated()
	return nil
}

// Deactivate removes the product from active use without deleting its
// movement history.
func (p *Product) Deactivate() {
	p.Active = false
	p.MarkUpdated()
}

// IsLowStock reports whether the cached quantity has reached the
// configured threshold. Products without a threshold never report low.
func (p *Product) IsLowStock() bool {
	if p.MinStockLevel == nil {
		return false
	}
	return p.StockQuantity <= *p.MinStockLevel
}

// ApplyQuantityChange applies a signed delta to the cached stock
// quantity. Outbound deltas that would drive the quantity negative are
// rejected with the available and requested amounts.
func (p *Product) ApplyQuantityChange(delta int64) error {
	next := p.StockQuantity + delta
	if next < 0 {
		return NewInsufficientStockError(p.ID, p.StockQuantity, -delta)
	}
	p.StockQuantity = next
	p.MarkUpdated()
	return nil
}

// SetStockQuantity overwrites the cached quantity. Used by
// reconciliation, which recomputes the balance from the movement
// history rather than applying a delta.
func (p *Product) SetStockQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_INPUT", "stock quantity cannot be negative")
	}
	p.StockQuantity = quantity
	p.MarkUpdated()
	return nil
}

// InsufficientStockError is returned when an outbound movement requests
// more units than the product currently holds.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int64
	Requested int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// Code returns the domain error code for transport mapping
func (e *InsufficientStockError) Code() string {
	return "INSUFFICIENT_STOCK"
}

// NewInsufficientStockError creates an insufficient stock error
func NewInsufficientStockError(productID uuid.UUID, available, requested int64) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Available: available,
		Requested: requested,
	}
}
