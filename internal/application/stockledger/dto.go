package stockledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/catalog"
	"github.com/workshophub/backend/internal/domain/stockledger"
)

// AdjustStockInput carries a stock adjustment request
type AdjustStockInput struct {
	TenantID     uuid.UUID
	ProductID    uuid.UUID
	MovementType string
	Reason       string
	Quantity     int64
	Notes        string
	ActorID      *uuid.UUID
}

// MovementResult is the application view of a recorded movement
type MovementResult struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    uuid.UUID  `json:"product_id"`
	MovementType string     `json:"movement_type"`
	Reason       string     `json:"reason"`
	Quantity     int64      `json:"quantity"`
	BalanceAfter int64      `json:"balance_after"`
	Notes        string     `json:"notes,omitempty"`
	ActorID      *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewMovementResult maps a domain movement to its application view
func NewMovementResult(m *stockledger.StockMovement) MovementResult {
	return MovementResult{
		ID:           m.ID,
		ProductID:    m.ProductID,
		MovementType: string(m.MovementType),
		Reason:       string(m.Reason),
		Quantity:     m.Quantity,
		BalanceAfter: m.BalanceAfter,
		Notes:        m.Notes,
		ActorID:      m.ActorID,
		CreatedAt:    m.CreatedAt,
	}
}

// ReconcileResult reports the outcome of a balance reconciliation
type ReconcileResult struct {
	ProductID       uuid.UUID `json:"product_id"`
	PreviousBalance int64     `json:"previous_balance"`
	ComputedBalance int64     `json:"computed_balance"`
	Drift           int64     `json:"drift"`
}

// StockStatusResult is the application view of a product's stock state
type StockStatusResult struct {
	ProductID     uuid.UUID `json:"product_id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	StockQuantity int64     `json:"stock_quantity"`
	MinStockLevel *int64    `json:"min_stock_level,omitempty"`
	LowStock      bool      `json:"low_stock"`
}

// NewStockStatusResult maps a product to its stock status view
func NewStockStatusResult(p *catalog.Product) StockStatusResult {
	return StockStatusResult{
		ProductID:     p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		LowStock:      p.IsLowStock(),
	}
}
