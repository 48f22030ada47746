package stockledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/shared"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementTypeIn  MovementType = "in"
	MovementTypeOut MovementType = "out"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut:
		return true
	}
	return false
}

// IsInbound reports whether the movement increases stock
func (t MovementType) IsInbound() bool {
	return t == MovementTypeIn
}

// MovementReason is the business cause of a stock movement
type MovementReason string

const (
	ReasonPurchase   MovementReason = "purchase"
	ReasonSale       MovementReason = "sale"
	ReasonAdjustment MovementReason = "adjustment"
	ReasonLoss       MovementReason = "loss"
	ReasonReturn     MovementReason = "return"
	ReasonTransfer   MovementReason = "transfer"
	ReasonInitial    MovementReason = "initial"
	ReasonOther      MovementReason = "other"
)

// IsValid checks if the movement reason is valid
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonAdjustment, ReasonLoss,
		ReasonReturn, ReasonTransfer, ReasonInitial, ReasonOther:
		return true
	}
	return false
}

// StockMovement is an append-only record of a single stock change.
// BalanceAfter snapshots the product's cached quantity immediately
// after the movement was applied, so the history alone can replay the
// balance at any point.
type StockMovement struct {
	shared.BaseEntity
	TenantID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_stock_movements_tenant_product,priority:1"`
	ProductID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_stock_movements_tenant_product,priority:2"`
	MovementType MovementType   `gorm:"size:8;not null"`
	Reason       MovementReason `gorm:"size:16;not null"`
	Quantity     int64          `gorm:"not null"`
	BalanceAfter int64          `gorm:"not null"`
	Notes        string         `gorm:"type:text"`
	ActorID      *uuid.UUID     `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a validated stock movement record
func NewStockMovement(
	tenantID, productID uuid.UUID,
	movementType MovementType,
	reason MovementReason,
	quantity, balanceAfter int64,
	notes string,
	actorID *uuid.UUID,
) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid movement type: "+string(movementType))
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid movement reason: "+string(reason))
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "movement quantity must be positive")
	}
	if balanceAfter < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "balance after movement cannot be negative")
	}

	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		ProductID:    productID,
		MovementType: movementType,
		Reason:       reason,
		Quantity:     quantity,
		BalanceAfter: balanceAfter,
		Notes:        strings.TrimSpace(notes),
		ActorID:      actorID,
	}, nil
}

// SignedQuantity returns the quantity with the direction applied
func (m *StockMovement) SignedQuantity() int64 {
	if m.MovementType.IsInbound() {
		return m.Quantity
	}
	return -m.Quantity
}
