package stockledger

import (
	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/shared"
)

// Event types for the stock ledger
const (
	EventTypeStockAdjusted   = "stockledger.stock_adjusted"
	EventTypeStockReconciled = "stockledger.stock_reconciled"
	EventTypeLowStockReached = "stockledger.low_stock_reached"
)

// StockAdjustedEvent is raised when a movement is recorded
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID      `json:"product_id"`
	MovementID   uuid.UUID      `json:"movement_id"`
	MovementType MovementType   `json:"movement_type"`
	Reason       MovementReason `json:"reason"`
	Quantity     int64          `json:"quantity"`
	BalanceAfter int64          `json:"balance_after"`
}

// NewStockAdjustedEvent creates a stock adjusted event
func NewStockAdjustedEvent(tenantID uuid.UUID, movement *StockMovement) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "Product", movement.ProductID, tenantID),
		ProductID:       movement.ProductID,
		MovementID:      movement.ID,
		MovementType:    movement.MovementType,
		Reason:          movement.Reason,
		Quantity:        movement.Quantity,
		BalanceAfter:    movement.BalanceAfter,
	}
}

// StockReconciledEvent is raised when a cached balance is recomputed
// from the movement history. No movement row accompanies this event.
type StockReconciledEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID `json:"product_id"`
	PreviousBalance int64     `json:"previous_balance"`
	ComputedBalance int64     `json:"computed_balance"`
}

// NewStockReconciledEvent creates a stock reconciled event
func NewStockReconciledEvent(tenantID, productID uuid.UUID, previous, computed int64) *StockReconciledEvent {
	return &StockReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReconciled, "Product", productID, tenantID),
		ProductID:       productID,
		PreviousBalance: previous,
		ComputedBalance: computed,
	}
}

// LowStockReachedEvent is raised when a movement drops a product to or
// below its configured threshold
type LowStockReachedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID `json:"product_id"`
	StockQuantity int64     `json:"stock_quantity"`
	MinStockLevel int64     `json:"min_stock_level"`
}

// NewLowStockReachedEvent creates a low stock event
func NewLowStockReachedEvent(tenantID, productID uuid.UUID, quantity, minLevel int64) *LowStockReachedEvent {
	return &LowStockReachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStockReached, "Product", productID, tenantID),
		ProductID:       productID,
		StockQuantity:   quantity,
		MinStockLevel:   minLevel,
	}
}
